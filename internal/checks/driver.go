// Package checks описывает протокольные драйверы, вызываемые
// CheckDispatcher. Фактические протокольные реализации (SNMP walk, JMX
// gateway RPC, SSH-сессия, разбор HTTP-ответа) остаются за пределами
// бюджета опроса (см. Non-goals в spec.md §1); ядро знает только про эти
// узкие интерфейсы.
package checks

import (
	"context"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

// Driver Проверяет ровно один элемент и возвращает заполненный результат с
// кодом завершения. Используется для всех типов элементов, кроме SNMP и
// JMX (§4.3: "the batch MUST contain exactly one item").
type Driver interface {
	Check(ctx context.Context, item models.Item) (models.Result, models.ErrCode)
}

// BatchDriver Проверяет целую партию однородных элементов за один вызов.
// Используется для SNMP (один walk на несколько OID с одного узла) и JMX
// (один запрос к Java-шлюзу на несколько атрибутов), зеркалит
// get_values_snmp/get_values_java в оригинале.
type BatchDriver interface {
	CheckBatch(ctx context.Context, items []models.Item) ([]models.Result, []models.ErrCode)
}

// DriverFunc Адаптер функции к интерфейсу Driver.
type DriverFunc func(ctx context.Context, item models.Item) (models.Result, models.ErrCode)

func (f DriverFunc) Check(ctx context.Context, item models.Item) (models.Result, models.ErrCode) {
	return f(ctx, item)
}

// NotSupported Возвращает результат-заглушку для типа элемента, у которого
// нет собранного в бинарь драйвера (например, SNMP без библиотеки
// net-snmp): сообщение reason и код ConfigError, поскольку элемент
// отклонён локально, без обращения к удалённой стороне.
func NotSupported(reason string) (models.Result, models.ErrCode) {
	var r models.Result
	r.SetMsg(reason)
	return r, models.ConfigError
}
