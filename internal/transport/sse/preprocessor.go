package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	sseclient "github.com/r3labs/sse/v2"

	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/ports"
)

const valuesStream = "values"

// Preprocessor Реализация ports.Preprocessor, которая вместо настоящего
// конвейера препроцессинга/истории транслирует каждое отправленное
// значение как SSE-событие — удобно для локальной отладки и для демо-
// окружений, где нет полноценной СУБД истории (явно вне бюджета опроса,
// см. Non-goals).
type Preprocessor struct {
	srv *sseclient.Server
	Log logger.Logger

	mu      sync.Mutex
	pending []ports.PreprocessValue
}

// NewPreprocessor Создаёт препроцессор и его поток "values".
func NewPreprocessor() *Preprocessor {
	srv := sseclient.New()
	srv.CreateStream(valuesStream)
	return &Preprocessor{srv: srv}
}

// Submit Копит значение до следующего Flush — сама запись обратного
// давления здесь тривиальна (очередь не ограничена), в духе in-memory
// reference-реализации, а не production-конвейера.
func (p *Preprocessor) Submit(_ context.Context, v ports.PreprocessValue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, v)
	return nil
}

// Flush Публикует накопленные значения одним JSON-массивом и опустошает
// очередь.
func (p *Preprocessor) Flush(_ context.Context) error {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	p.srv.Publish(valuesStream, &sseclient.Event{Data: data})
	return nil
}

// HTTPHandler Монтируется на /events/values для внешних наблюдателей.
func (p *Preprocessor) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil && p.Log != nil {
				p.Log.Error("sse preprocessor: panic recovered", logger.String("panic", fmt.Sprintf("%v", rec)))
			}
		}()

		r2 := r.Clone(r.Context())
		q := r2.URL.Query()
		q.Set("stream", valuesStream)
		r2.URL.RawQuery = q.Encode()
		r2.URL.Path = "/"

		p.srv.ServeHTTP(w, r2)
	})
}

// Close Закрывает все подключения потока значений.
func (p *Preprocessor) Close() error {
	p.srv.Close()
	return nil
}
