package memcache

import (
	"context"
	"sync"

	"github.com/trsv-dev/zbxpoller/internal/ports"
)

// Preprocessor In-memory реализация ports.Preprocessor: Submit накапливает,
// Flush переносит накопленное в историю и очищает очередь — справочная
// реализация для тестов, без реального конвейера препроцессинга (тот
// остаётся вне бюджета опроса, Non-goals).
type Preprocessor struct {
	mu      sync.Mutex
	pending []ports.PreprocessValue
	history []ports.PreprocessValue
}

// NewPreprocessor Создаёт пустой препроцессор.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Submit Добавляет значение в очередь на флаш.
func (p *Preprocessor) Submit(_ context.Context, v ports.PreprocessValue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, v)
	return nil
}

// Flush Переносит накопленные значения в историю.
func (p *Preprocessor) Flush(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, p.pending...)
	p.pending = nil
	return nil
}

// History Возвращает снимок всех значений, прошедших через Flush.
func (p *Preprocessor) History() []ports.PreprocessValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.PreprocessValue, len(p.history))
	copy(out, p.history)
	return out
}
