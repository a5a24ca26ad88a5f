// Package httpengine реализует HttpAsyncEngine (§4.4 спеки) — единственный
// асинхронный путь опроса, построенный поверх события-цикла
// github.com/joeycumines/go-eventloop, который в этом переносе играет роль
// связки libevent+curl-multi из original_source/poller.c.
package httpengine

import (
	"context"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

// Completion Итог одного завершённого запроса, отданный мультиплексором
// при очередном дренаже (CheckMultiInfo в оригинале).
type Completion struct {
	ItemID     int64
	Body       string
	StatusCode int
	Err        error
}

// Driver Протокольный драйвер HTTP-транспорта. Фактическая реализация
// (TLS, редиректы, прокси, таймауты) остаётся вне бюджета опроса
// (Non-goals, spec.md §1); ядро знает только эти два метода.
type Driver interface {
	// Submit Запускает запрос для подготовленного элемента, не блокируясь.
	Submit(ctx context.Context, hc *models.HttpContext, item models.Item) error

	// Drain Возвращает завершившиеся с момента последнего вызова запросы,
	// в порядке, который решает сам мультиплексор — не обязательно в
	// порядке отправки (§4.4 "Ordering and timestamps").
	Drain() []Completion
}
