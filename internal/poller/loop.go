// Package poller реализует PollerLoop (§4.5 спеки), перенесено из
// main_poller_loop в original_source/poller.c.
package poller

import (
	"context"
	"time"

	"github.com/trsv-dev/zbxpoller/internal/availability"
	"github.com/trsv-dev/zbxpoller/internal/dispatcher"
	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
	"github.com/trsv-dev/zbxpoller/internal/preparer"
)

const maxSubTimestamp = 1_000_000_000

// Config Настройки одного экземпляра поллера (аналог полей, читаемых из
// CONFIG_* в оригинале).
type Config struct {
	PollerType   models.PollerType
	FetchTimeout time.Duration
	// PollerDelay Верхняя граница времени сна между циклами при пустой
	// партии (POLLER_DELAY в оригинале).
	PollerDelay time.Duration
	Grace       availability.Grace
	// StatInterval Период логирования CycleStats.
	StatInterval time.Duration
}

// Loop Один экземпляр синхронного PollerLoop. Владеет всеми зависимостями,
// кроме Normal-HTTP, который обслуживается отдельным httpengine.Engine
// (§4.5: "For the Normal HTTP poller type: hand off to HttpAsyncEngine").
type Loop struct {
	ConfigCache     ports.ConfigCache
	Preparer        preparer.Preparer
	Dispatcher      dispatcher.Dispatcher
	FSM             availability.FSM
	Buffer          *availability.BatchBuffer
	Preprocessor    ports.Preprocessor
	AvailabilityBus ports.AvailabilityBus
	RTC             ports.RTC
	Log             logger.Logger
	Config          Config

	stats CycleStats
}

// Run Выполняет циклы опроса до получения RTCShutdown или отмены ctx.
func (l *Loop) Run(ctx context.Context) error {
	if l.Buffer == nil {
		l.Buffer = availability.NewBatchBuffer()
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		sleep := l.RunCycle(ctx)

		cmd, err := l.RTC.Wait(ctx, sleep)
		if err != nil {
			return err
		}
		switch cmd {
		case ports.RTCShutdown:
			return nil
		case ports.RTCConfigCacheReload:
			// конфигурация будет перечитана следующим FetchDue — просто
			// не ждём остаток межцикловой паузы.
			continue
		}
	}
}

// RunCycle Выполняет ровно один цикл алгоритма §4.5 и возвращает время сна
// до следующего цикла.
func (l *Loop) RunCycle(ctx context.Context) time.Duration {
	items, err := l.ConfigCache.FetchDue(ctx, l.Config.PollerType, l.Config.FetchTimeout)
	if err != nil {
		if l.Log != nil {
			l.Log.Error("poller: fetch due failed", logger.String("err", err.Error()))
		}
		return l.Config.PollerDelay
	}
	if len(items) == 0 {
		next, err := l.ConfigCache.NextCheck(ctx, l.Config.PollerType)
		if err != nil {
			return l.Config.PollerDelay
		}
		return CalcSleepTime(next, time.Now().Unix(), l.Config.PollerDelay)
	}

	slots := make([]models.ItemSlot, len(items))
	for i, item := range items {
		slots[i].Item = item
	}
	batch := &models.Batch{PollerType: l.Config.PollerType, Slots: slots}

	batchID := ports.NewBatchID()
	if l.Log != nil {
		l.Log.Debug("poller: batch fetched", logger.String("batch_id", batchID), logger.Int("items", len(items)))
	}

	l.Preparer.Prepare(batch, true)
	l.runDispatch(ctx, batch)

	ts := time.Now().Unix()
	l.updateAvailability(batch, ts)
	l.emitValues(ctx, batch, ts)
	l.requeueAll(ctx, batch, ts)

	_ = l.Preprocessor.Flush(ctx)
	l.Preparer.Clean(batch)
	_ = l.ConfigCache.CleanItems(ctx, items)
	_ = l.Buffer.FlushTo(ctx, l.AvailabilityBus)

	l.stats.Record(len(batch.Slots))
	l.stats.MaybeLog(l.Log, pollerTypeName(l.Config.PollerType), l.Config.StatInterval)

	next, err := l.ConfigCache.NextCheck(ctx, l.Config.PollerType)
	if err != nil {
		return l.Config.PollerDelay
	}
	return CalcSleepTime(next, time.Now().Unix(), l.Config.PollerDelay)
}

func (l *Loop) runDispatch(ctx context.Context, batch *models.Batch) {
	if len(batch.Slots) == 0 {
		return
	}
	switch batch.Slots[0].Item.Type {
	case models.SNMP, models.JMX:
		l.Dispatcher.Run(ctx, batch)
		return
	}
	for i := range batch.Slots {
		single := &models.Batch{PollerType: batch.PollerType, Slots: batch.Slots[i : i+1]}
		l.Dispatcher.Run(ctx, single)
	}
}

// updateAvailability Обрабатывает не более одной активации и не более
// одной деактивации на интерфейс за партию (P3).
func (l *Loop) updateAvailability(batch *models.Batch, ts int64) {
	activated := make(map[int64]bool)
	deactivated := make(map[int64]bool)

	for i := range batch.Slots {
		slot := &batch.Slots[i]
		iface := slot.Item.Interface
		if iface == nil || !models.TypeCompatible(slot.Item.Type, iface.Type) {
			continue
		}

		switch slot.ErrCode {
		case models.Success, models.NotSupported, models.AgentError:
			if activated[iface.InterfaceID] {
				continue
			}
			activated[iface.InterfaceID] = true
			if delta, changed := l.FSM.Activate(iface, ts); changed {
				l.Buffer.Append(delta)
			}
		case models.NetworkError, models.GatewayError, models.TimeoutError:
			if deactivated[iface.InterfaceID] {
				continue
			}
			deactivated[iface.InterfaceID] = true
			msg := slot.Result.Msg
			if delta, changed := l.FSM.Deactivate(iface, ts, msg, l.Config.Grace); changed {
				l.Buffer.Append(delta)
			}
		}
	}
}

// emitValues Реализует шаг 5 §4.5: только Success (скаляр или вектор
// саб-результатов) и {NotSupported, AgentError, ConfigError} порождают
// отправку в Preprocessor; NetworkError/GatewayError/TimeoutError/
// SignalError идут только в апдейт доступности и реквизацию (P1).
func (l *Loop) emitValues(ctx context.Context, batch *models.Batch, ts int64) {
	for i := range batch.Slots {
		slot := &batch.Slots[i]
		switch slot.ErrCode {
		case models.Success:
			if len(slot.Result.SubResults) == 0 {
				slot.Item.State = models.StateNormal
				l.submit(ctx, slot.Item, slot.Result, models.Success, models.StateNormal, ts, 0)
				continue
			}
			tsNs := int64(0)
			for _, sub := range slot.Result.SubResults {
				state := models.StateNormal
				if sub.HasMessage() {
					state = models.StateNotSupported
				}
				l.submit(ctx, slot.Item, sub, models.Success, state, ts, tsNs)
				tsNs = nextSubTimestamp(tsNs)
			}
		case models.NotSupported, models.AgentError, models.ConfigError:
			slot.Item.State = models.StateNotSupported
			l.submit(ctx, slot.Item, slot.Result, slot.ErrCode, models.StateNotSupported, ts, 0)
		}
	}
}

func (l *Loop) submit(ctx context.Context, item models.Item, result models.Result, errCode models.ErrCode, state models.ItemState, ts, tsNs int64) {
	if err := l.Preprocessor.Submit(ctx, ports.PreprocessValue{
		ItemID:    item.ItemID,
		HostID:    item.Host.HostID,
		ValueType: item.ValueType,
		Flags:     item.Flags,
		State:     state,
		Result:    result,
		ErrCode:   errCode,
		Ts:        ts,
		TsNs:      tsNs,
	}); err != nil && l.Log != nil {
		l.Log.Error("poller: submit failed", logger.Int64("itemid", item.ItemID), logger.String("err", err.Error()))
	}
}

// requeueAll Гарантирует P2: ровно один Requeue на элемент.
func (l *Loop) requeueAll(ctx context.Context, batch *models.Batch, ts int64) {
	for i := range batch.Slots {
		slot := &batch.Slots[i]
		if _, err := l.ConfigCache.Requeue(ctx, slot.Item.ItemID, ts, slot.ErrCode, l.Config.PollerType); err != nil && l.Log != nil {
			l.Log.Error("poller: requeue failed", logger.Int64("itemid", slot.Item.ItemID), logger.String("err", err.Error()))
		}
	}
}

// nextSubTimestamp Увеличивает ts.ns на единицу для следующего
// саб-результата, оборачиваясь в 0 по достижении 1e9 — поведение сохранено
// как в оригинале (Open Question спеки решён в пользу статус-кво, см.
// DESIGN.md).
func nextSubTimestamp(tsNs int64) int64 {
	tsNs++
	if tsNs >= maxSubTimestamp {
		tsNs = 0
	}
	return tsNs
}

// CalcSleepTime Время сна до следующего цикла, зажатое в [0, pollerDelay]
// (zbx_calculate_sleeptime в оригинале).
func CalcSleepTime(nextCheck, now int64, pollerDelay time.Duration) time.Duration {
	d := nextCheck - now
	if d < 0 {
		d = 0
	}
	sleep := time.Duration(d) * time.Second
	if sleep > pollerDelay {
		sleep = pollerDelay
	}
	return sleep
}

func pollerTypeName(t models.PollerType) string {
	switch t {
	case models.PollerNormal:
		return "normal"
	case models.PollerUnreachable:
		return "unreachable"
	case models.PollerHistory:
		return "history"
	default:
		return "unknown"
	}
}
