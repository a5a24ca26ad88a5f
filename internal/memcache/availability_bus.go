package memcache

import (
	"context"
	"sync"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

// AvailabilityBus In-memory реализация ports.AvailabilityBus, которая лишь
// копит полученные дельты для последующего чтения — справочная замена
// полноценной IPC-шины оригинала, аналог NoopAdapter учителя, но
// сохраняющая данные вместо простого отбрасывания, что удобнее для тестов.
type AvailabilityBus struct {
	mu     sync.Mutex
	deltas []models.AvailabilityDelta
}

// NewAvailabilityBus Создаёт пустую шину.
func NewAvailabilityBus() *AvailabilityBus {
	return &AvailabilityBus{}
}

// Send Добавляет полученную партию дельт к накопленной истории.
func (b *AvailabilityBus) Send(_ context.Context, deltas []models.AvailabilityDelta) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deltas = append(b.deltas, deltas...)
	return nil
}

// All Возвращает снимок всех накопленных дельт.
func (b *AvailabilityBus) All() []models.AvailabilityDelta {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.AvailabilityDelta, len(b.deltas))
	copy(out, b.deltas)
	return out
}
