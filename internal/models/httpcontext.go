package models

// HttpContext Состояние одного запроса HttpAgent-элемента, находящегося в
// работе у HttpAsyncEngine. Владеет протокольным хендлом (здесь — непрозрачным
// для ядра значением Handle, предоставляемым HTTP-драйвером) и копией полей
// идентичности элемента, нужных, чтобы опубликовать значение после завершения
// без повторного обращения к ConfigCache.
type HttpContext struct {
	ItemID    int64
	HostID    int64
	ValueType ValueType
	Flags     uint64
	State     ItemState
	Body      string
	Handle    any
}
