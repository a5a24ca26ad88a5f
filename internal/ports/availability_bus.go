package ports

import (
	"context"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

//go:generate mockgen -destination=mocks/availability_bus_mock.go -package=mocks . AvailabilityBus

// AvailabilityBus Однонаправленный канал доставки дельт доступности
// интерфейсов в конфигурационный кэш (IPC availability-диагностика в
// оригинале). Ядро поллера не ждёт ответа и не повторяет отправку —
// по духу ближе к fire-and-forget, как send_list_of_active_checks в IPC
// Zabbix.
type AvailabilityBus interface {
	// Send Отправляет накопленный за цикл набор дельт. Пустой слайс не
	// должен отправляться вызывающим кодом (см. AvailabilityBatchBuffer).
	Send(ctx context.Context, deltas []models.AvailabilityDelta) error
}
