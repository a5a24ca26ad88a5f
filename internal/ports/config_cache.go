// Package ports describes the external collaborators the poller core talks
// to, narrowly, the way the teacher repo separates WorkerStorage from the
// full Storage interface: each port exposes exactly the operations its
// consumer needs and nothing more.
package ports

import (
	"context"
	"time"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

//go:generate mockgen -destination=mocks/config_cache_mock.go -package=mocks . ConfigCache

// ConfigCache Конфигурационный кэш, из которого поллер забирает готовые к
// опросу элементы и в который сдаёт их обратно после опроса. Реализация
// (БД-кэш, in-memory, ...) находится вне зоны ответственности ядра.
type ConfigCache interface {
	// FetchDue Возвращает очередную партию элементов, срок опроса которых
	// наступил, числом не более models.MaxPollerItems.
	FetchDue(ctx context.Context, pollerType models.PollerType, timeout time.Duration) ([]models.Item, error)

	// NextCheck Время ближайшей следующей проверки для данного типа поллера,
	// используется когда партия оказалась пустой.
	NextCheck(ctx context.Context, pollerType models.PollerType) (int64, error)

	// Requeue Возвращает итог опроса одного элемента в кэш, получая взамен
	// обновлённый nextcheck.
	Requeue(ctx context.Context, itemID int64, tsSec int64, errCode models.ErrCode, pollerType models.PollerType) (nextCheck int64, err error)

	// CleanItems Освобождает копии элементов партии, удерживаемые кэшем.
	CleanItems(ctx context.Context, items []models.Item) error
}
