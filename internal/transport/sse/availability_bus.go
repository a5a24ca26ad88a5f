// Package sse адаптирует github.com/r3labs/sse/v2 (уже используемый
// teacher-репозиторием для панели статусов серверов) под наблюдаемость
// поллера: дельты доступности и препроцессинговые значения публикуются как
// SSE-события, чтобы внешний дашборд мог следить за циклами опроса вживую.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	sseclient "github.com/r3labs/sse/v2"

	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/models"
)

const availabilityStream = "availability"

// AvailabilityBus Реализация ports.AvailabilityBus поверх r3labs/sse,
// перенесена из internal/broadcast/r3labsSSE.go: тот же sse.Server,
// Publish/Close, но Send пишет JSON-сериализованные дельты вместо JSON
// статусов серверов.
type AvailabilityBus struct {
	srv *sseclient.Server
	Log logger.Logger
}

// NewAvailabilityBus Создаёт шину и её внутренний sse.Server, заранее
// создавая единственный стрим "availability".
func NewAvailabilityBus() *AvailabilityBus {
	srv := sseclient.New()
	srv.CreateStream(availabilityStream)
	return &AvailabilityBus{srv: srv}
}

// Send Публикует партию дельт одним SSE-событием на поток "availability".
func (b *AvailabilityBus) Send(_ context.Context, deltas []models.AvailabilityDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	data, err := json.Marshal(deltas)
	if err != nil {
		return fmt.Errorf("marshal availability deltas: %w", err)
	}
	b.srv.Publish(availabilityStream, &sseclient.Event{Data: data})
	return nil
}

// HTTPHandler Монтируется на /events/availability для внешних наблюдателей.
func (b *AvailabilityBus) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil && b.Log != nil {
				b.Log.Error("sse availability: panic recovered", logger.String("panic", fmt.Sprintf("%v", rec)))
			}
		}()

		r2 := r.Clone(r.Context())
		q := r2.URL.Query()
		q.Set("stream", availabilityStream)
		r2.URL.RawQuery = q.Encode()
		r2.URL.Path = "/"

		b.srv.ServeHTTP(w, r2)
	})
}

// Close Закрывает все подключённые EventSource-соединения.
func (b *AvailabilityBus) Close() error {
	b.srv.Close()
	return nil
}
