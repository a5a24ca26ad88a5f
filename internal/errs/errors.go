// Package errs содержит кастомные ошибки поллера, перенесённые по образцу
// errors.go/servers.go/services.go учителя (struct + Error()/Unwrap() +
// NewErrXxx-конструктор) и перенацеленные с логина/серверов/служб веб-части
// на домен опроса: некорректный порт, неизвестный тип элемента, отсутствующий
// драйвер протокола.
package errs

import "fmt"

// ErrBadPort Кастомная ошибка, сообщающая о том, что поле port элемента не
// удалось разобрать как uint16 после раскрытия макросов (ItemPreparer,
// §4.2 спеки).
type ErrBadPort struct {
	Raw string
	Err error
}

func (e *ErrBadPort) Error() string {
	return fmt.Sprintf("некорректный порт %q. Ошибка: %v", e.Raw, e.Err)
}

func (e *ErrBadPort) Unwrap() error {
	return e.Err
}

func NewErrBadPort(raw string, err error) *ErrBadPort {
	if err == nil {
		err = fmt.Errorf("порт не является 16-битным беззнаковым числом")
	}
	return &ErrBadPort{
		Raw: raw,
		Err: err,
	}
}

// ErrUnknownItemType Кастомная ошибка, сообщающая о том, что CheckDispatcher
// не знает, какому однотипному драйверу отдать элемент (§4.3 спеки).
type ErrUnknownItemType struct {
	ItemID int64
	Type   string
	Err    error
}

func (e *ErrUnknownItemType) Error() string {
	return fmt.Sprintf("неизвестный тип элемента %q (itemid=%d). Ошибка: %v", e.Type, e.ItemID, e.Err)
}

func (e *ErrUnknownItemType) Unwrap() error {
	return e.Err
}

func NewErrUnknownItemType(itemID int64, itemType string, err error) *ErrUnknownItemType {
	if err == nil {
		err = fmt.Errorf("тип элемента не поддерживается диспетчером")
	}
	return &ErrUnknownItemType{
		ItemID: itemID,
		Type:   itemType,
		Err:    err,
	}
}

// ErrDriverAbsent Кастомная ошибка, сообщающая о том, что батч-драйвер
// (SNMP/JMX) отсутствует в сборке — библиотека не собрана или шлюз не
// настроен (§4.3 спеки: "the SNMP-library is absent"/"the gateway is
// unreachable").
type ErrDriverAbsent struct {
	Driver string
	Err    error
}

func (e *ErrDriverAbsent) Error() string {
	return fmt.Sprintf("драйвер %s недоступен. Ошибка: %v", e.Driver, e.Err)
}

func (e *ErrDriverAbsent) Unwrap() error {
	return e.Err
}

func NewErrDriverAbsent(driver string, err error) *ErrDriverAbsent {
	if err == nil {
		err = fmt.Errorf("драйвер не собран или не настроен")
	}
	return &ErrDriverAbsent{
		Driver: driver,
		Err:    err,
	}
}
