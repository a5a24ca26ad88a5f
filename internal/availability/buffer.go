package availability

import (
	"context"
	"sync"

	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
)

// BatchBuffer Накопитель дельт доступности за один цикл поллера (§4.6
// спеки). На interfaceid хранится не более одной дельты — если FSM за одну
// партию породит для одного интерфейса и Activate, и Deactivate (что
// вызывающий код не должен допускать согласно P3, но буфер всё равно
// защищается от этого), более поздний вызов Append перезаписывает более
// ранний.
type BatchBuffer struct {
	mu     sync.Mutex
	deltas map[int64]models.AvailabilityDelta
}

// NewBatchBuffer Создаёт пустой буфер.
func NewBatchBuffer() *BatchBuffer {
	return &BatchBuffer{deltas: make(map[int64]models.AvailabilityDelta)}
}

// Append Добавляет дельту в буфер. Пустая дельта (IsSet()==false)
// игнорируется — активация/деактивация, не изменившая ни одного поля, не
// должна попадать на шину.
func (b *BatchBuffer) Append(delta models.AvailabilityDelta) {
	if !delta.IsSet() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deltas[delta.InterfaceID] = delta
}

// Len Число накопленных дельт.
func (b *BatchBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.deltas)
}

// FlushTo Отправляет накопленные дельты в шину доступности и опустошает
// буфер. Если дельт нет — ничего не отправляет (зеркалит проверку на NULL
// в zbx_send_agent_availability оригинала: буфер шлётся только когда он не
// пуст).
func (b *BatchBuffer) FlushTo(ctx context.Context, bus ports.AvailabilityBus) error {
	b.mu.Lock()
	if len(b.deltas) == 0 {
		b.mu.Unlock()
		return nil
	}
	out := make([]models.AvailabilityDelta, 0, len(b.deltas))
	for _, d := range b.deltas {
		out = append(out, d)
	}
	b.deltas = make(map[int64]models.AvailabilityDelta)
	b.mu.Unlock()

	return bus.Send(ctx, out)
}
