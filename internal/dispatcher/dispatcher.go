// Package dispatcher реализует синхронный CheckDispatcher (§4.3 спеки),
// перенесённый из get_values_snmp/get_values_java/get_value (переключение
// по item->type) в original_source/poller.c.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/trsv-dev/zbxpoller/internal/checks"
	"github.com/trsv-dev/zbxpoller/internal/errs"
	"github.com/trsv-dev/zbxpoller/internal/models"
)

// Dispatcher Маршрутизирует подготовленную партию к нужным драйверам.
type Dispatcher struct {
	// Drivers Однотипный (single-item) драйвер на каждый ItemType, кроме
	// SNMP и JMX, которые идут батчем (см. SNMP/JMX ниже).
	Drivers map[models.ItemType]checks.Driver

	// SNMP Батч-драйвер SNMP; nil означает "SNMP-библиотека не собрана" —
	// тогда вся партия помечается ConfigError с сообщением об отсутствии
	// драйвера (§4.3).
	SNMP checks.BatchDriver

	// JMX Батч-драйвер JMX; nil означает "шлюз недоступен", та же
	// деградация, что и для SNMP.
	JMX checks.BatchDriver
}

// Run Опрашивает партию. Партия должна содержать либо только SNMP-элементы,
// либо только JMX-элементы (в этих случаях — любое число элементов), либо
// ровно один элемент любого другого типа; нарушение этого — ошибка
// программирования вызывающего кода (PollerLoop.runDispatch передаёт сюда
// всю партию, если её первый элемент SNMP или JMX, а иначе — партии из
// одного элемента).
func (d Dispatcher) Run(ctx context.Context, batch *models.Batch) {
	if len(batch.Slots) == 0 {
		return
	}

	switch batch.Slots[0].Item.Type {
	case models.SNMP:
		d.runBatch(ctx, batch, d.SNMP, errs.NewErrDriverAbsent("snmp", fmt.Errorf("library not compiled in")).Error())
		return
	case models.JMX:
		d.runBatch(ctx, batch, d.JMX, errs.NewErrDriverAbsent("jmx", fmt.Errorf("gateway not configured")).Error())
		return
	}

	if len(batch.Slots) != 1 {
		panic(fmt.Sprintf("dispatcher: batch of type %v must contain exactly one item, got %d",
			batch.Slots[0].Item.Type, len(batch.Slots)))
	}

	slot := &batch.Slots[0]
	driver, ok := d.Drivers[slot.Item.Type]
	if !ok {
		err := errs.NewErrUnknownItemType(slot.Item.ItemID, fmt.Sprintf("%v", slot.Item.Type), nil)
		slot.Result.SetMsg(err.Error())
		slot.ErrCode = models.ConfigError
		return
	}

	result, errCode := driver.Check(ctx, slot.Item)
	ensureMessage(&result, errCode)
	slot.Result = result
	slot.ErrCode = errCode
}

func (d Dispatcher) runBatch(ctx context.Context, batch *models.Batch, driver checks.BatchDriver, missingReason string) {
	if driver == nil {
		for i := range batch.Slots {
			result, errCode := checks.NotSupported(missingReason)
			batch.Slots[i].Result = result
			batch.Slots[i].ErrCode = errCode
		}
		return
	}

	items := make([]models.Item, len(batch.Slots))
	for i, slot := range batch.Slots {
		items[i] = slot.Item
	}

	results, errCodes := driver.CheckBatch(ctx, items)
	for i := range batch.Slots {
		var result models.Result
		errCode := models.ConfigError
		if i < len(results) {
			result = results[i]
		}
		if i < len(errCodes) {
			errCode = errCodes[i]
		}
		ensureMessage(&result, errCode)
		batch.Slots[i].Result = result
		batch.Slots[i].ErrCode = errCode
	}
}

// ensureMessage Гарантирует, что любой неуспешный результат несёт
// сообщение, даже если драйвер забыл его выставить (§4.3: "falling back to
// a generic not supported string").
func ensureMessage(result *models.Result, errCode models.ErrCode) {
	if errCode == models.Success {
		return
	}
	if !result.HasMessage() {
		result.SetMsg("not supported")
	}
}
