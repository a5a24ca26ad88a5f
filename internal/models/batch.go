package models

// MaxPollerItems Верхняя граница числа элементов, получаемых за одну выборку
// ConfigCache.FetchDue (ZBX_MAX_POLLER_ITEMS в оригинале).
const MaxPollerItems = 1000

// ItemSlot Один элемент партии вместе с его результатом и кодом завершения.
//
// В оригинале это три параллельных массива items[]/results[]/errcodes[];
// здесь они объединены в один срез, что делает инварианты P1/P2 (§8 спеки)
// проверяемыми по каждому слоту независимо, без риска рассинхронизации
// индексов.
type ItemSlot struct {
	Item    Item
	Result  Result
	ErrCode ErrCode
}

// Batch Партия элементов, полученная атомарно для одного типа поллера.
type Batch struct {
	PollerType PollerType
	Slots      []ItemSlot
}

// PollerType Метка маршрутизации, разделяющая элементы между пулами воркеров.
type PollerType int

const (
	PollerNormal PollerType = iota
	PollerUnreachable
	PollerHistory
)
