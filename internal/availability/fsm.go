// Package availability переносит интерфейсную модель доступности из
// original_source/poller.c (zbx_activate_item_interface /
// zbx_deactivate_item_interface) в явную конечную машину с двумя
// наблюдаемыми переходами и набором внутренних под-случаев, каждый со
// своим сообщением в лог (формулировки сообщений свои, дословно оригинал
// они не повторяют).
package availability

import (
	"fmt"
	"time"

	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/models"
)

// Grace Тайминги серого периода для одного типа интерфейса, читаются из
// конфигурации (аналог UnavailableDelay/UnreachablePeriod/UnreachableDelay
// в конфиге оригинала).
type Grace struct {
	UnavailableDelay  time.Duration
	UnreachablePeriod time.Duration
	UnreachableDelay  time.Duration
}

// FSM Конечная машина доступности интерфейса. Сама не хранит состояние —
// оно живёт в models.Interface.Availability, предоставляемом вызывающим
// кодом (обычно ItemSlot.Item.Interface); FSM лишь решает, нужен ли переход,
// мутирует копию и отдаёт дельту для AvailabilityBatchBuffer.
type FSM struct {
	Log logger.Logger
}

// Activate Переводит интерфейс в доступное состояние. Вызывается не чаще
// одного раза за партию на interfaceid (P3 спеки) — эта гарантия
// обеспечивается вызывающим кодом (PollerLoop), не самой FSM.
func (f FSM) Activate(iface *models.Interface, now int64) (models.AvailabilityDelta, bool) {
	avail := &iface.Availability
	var delta models.AvailabilityDelta
	delta.InterfaceID = iface.InterfaceID

	if avail.Available == models.AvailableTrue && avail.Error == "" {
		return delta, false
	}

	if avail.Available != models.AvailableTrue {
		avail.Available = models.AvailableTrue
		delta.Flags |= models.FlagAvailable
		f.log("interface became available", iface)
	}
	if avail.Error != "" {
		avail.Error = ""
		delta.Flags |= models.FlagError
	}
	if avail.ErrorsFrom != 0 {
		avail.ErrorsFrom = 0
		delta.Flags |= models.FlagErrorsFrom
	}
	if avail.DisableUntil != 0 {
		avail.DisableUntil = 0
		delta.Flags |= models.FlagDisableUntil
	}

	delta.Agent = *avail
	return delta, delta.IsSet()
}

// Deactivate Регистрирует неудачную проверку интерфейса. Воспроизводит три
// под-случая оригинала: первая ошибка (errors_from==0), повторная ошибка в
// пределах unreachable_period (интерфейс остаётся "unknown"/"true", но
// disable_until сдвигается), и истечение unreachable_period (интерфейс
// помечается окончательно недоступным). Уже помеченный AvailableFalse
// интерфейс не порождает новый переход — не более одного перехода на
// партию (P3).
func (f FSM) Deactivate(iface *models.Interface, now int64, errMsg string, grace Grace) (models.AvailabilityDelta, bool) {
	avail := &iface.Availability
	var delta models.AvailabilityDelta
	delta.InterfaceID = iface.InterfaceID

	if avail.Available == models.AvailableFalse {
		return delta, false
	}

	switch {
	case avail.ErrorsFrom == 0:
		avail.ErrorsFrom = now
		avail.DisableUntil = now + int64(grace.UnreachableDelay/time.Second)
		if avail.Error != errMsg {
			avail.Error = errMsg
			delta.Flags |= models.FlagError
		}
		delta.Flags |= models.FlagErrorsFrom | models.FlagDisableUntil
		f.log(fmt.Sprintf("interface became temporarily unreachable: %s", errMsg), iface)

	case avail.Available != models.AvailableFalse &&
		now-avail.ErrorsFrom < int64(grace.UnreachablePeriod/time.Second):
		avail.DisableUntil = now + int64(grace.UnreachableDelay/time.Second)
		delta.Flags |= models.FlagDisableUntil
		if avail.Error != errMsg {
			avail.Error = errMsg
			delta.Flags |= models.FlagError
		}
		f.log(fmt.Sprintf("another network error, wait for trying: %s", errMsg), iface)

	default:
		avail.Available = models.AvailableFalse
		avail.DisableUntil = now + int64(grace.UnavailableDelay/time.Second)
		delta.Flags |= models.FlagAvailable | models.FlagDisableUntil
		if avail.Error != errMsg {
			avail.Error = errMsg
			delta.Flags |= models.FlagError
		}
		f.log(fmt.Sprintf("interface became unavailable: %s", errMsg), iface)
	}

	delta.Agent = *avail
	return delta, delta.IsSet()
}

func (f FSM) log(msg string, iface *models.Interface) {
	if f.Log == nil {
		return
	}
	f.Log.Info(msg, logger.Int64("interfaceid", iface.InterfaceID), logger.String("addr", iface.Addr))
}
