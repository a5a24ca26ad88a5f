package httpengine

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/joeycumines/go-eventloop"
	"golang.org/x/sync/errgroup"

	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
	"github.com/trsv-dev/zbxpoller/internal/preparer"
)

const defaultTickInterval = 1 * time.Second

// Engine Однопоточный кооперативный цикл опроса HttpAgent-элементов,
// построенный вокруг одного event-loop'а и одного мультиплексированного
// HTTP-клиента (Driver), зеркалит модель §4.4: items are admitted in small
// ticks, completions drained out of order, one timespec per drain.
type Engine struct {
	ConfigCache  ports.ConfigCache
	Preparer     preparer.Preparer
	Preprocessor ports.Preprocessor
	Driver       Driver
	Log          logger.Logger

	// TickInterval Период, с которым AddItems опрашивает ConfigCache на
	// предмет новых элементов. По умолчанию 1с (§4.4).
	TickInterval time.Duration

	FetchTimeout time.Duration

	mu          sync.Mutex
	shutdown    bool
	statusCodes map[int64]string
}

// Run Запускает event loop и блокируется до отмены ctx либо вызова Stop.
// Единственная асинхронная точка входа HTTP-поллера.
func (e *Engine) Run(ctx context.Context) error {
	loop, err := eventloop.New()
	if err != nil {
		return err
	}
	defer loop.Close()

	js, err := eventloop.NewJS(loop)
	if err != nil {
		return err
	}

	tick := e.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}

	if _, err := js.SetInterval(func() {
		e.addItems(ctx)
		e.drain(ctx)
		_ = e.Preprocessor.Flush(ctx)
	}, int(tick/time.Millisecond)); err != nil {
		return err
	}

	return loop.Run(ctx)
}

// Stop Переводит движок в режим остановки: AddItems больше не принимает
// новые элементы, уже запущенные запросы донашиваются best-effort (§4.4
// "Cancellation / shutdown") — нет API отмены отдельного запроса.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()
}

func (e *Engine) isShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

// rememberStatusCodes Запоминает status_codes подготовленного элемента на
// время его пребывания в мультиплексоре — Completion несёт только itemid,
// так что сверка с ожидаемыми кодами делается здесь, в drain.
func (e *Engine) rememberStatusCodes(itemID int64, statusCodes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.statusCodes == nil {
		e.statusCodes = make(map[int64]string)
	}
	e.statusCodes[itemID] = statusCodes
}

// takeStatusCodes Забирает и удаляет запомненные status_codes для itemid.
func (e *Engine) takeStatusCodes(itemID int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	codes := e.statusCodes[itemID]
	delete(e.statusCodes, itemID)
	return codes
}

// addItems Выбирает очередную партию HttpAgent-элементов, готовит её одним
// последовательным вызовом Preparer.Prepare и отправляет каждый успешно
// подготовленный элемент драйверу; вызовы Driver.Submit разводятся по
// горутинам через errgroup и дожидаются все вместе. Элементы, не прошедшие
// подготовку, немедленно эмитятся как NotSupported и переставляются в очередь.
func (e *Engine) addItems(ctx context.Context) {
	if e.isShutdown() {
		return
	}

	batch, err := e.ConfigCache.FetchDue(ctx, models.PollerNormal, e.FetchTimeout)
	if err != nil {
		if e.Log != nil {
			e.Log.Error("http engine: fetch due items failed", logger.String("err", err.Error()))
		}
		return
	}
	if len(batch) == 0 {
		return
	}

	slots := make([]models.ItemSlot, len(batch))
	for i, item := range batch {
		slots[i].Item = item
	}
	b := &models.Batch{PollerType: models.PollerNormal, Slots: slots}
	e.Preparer.Prepare(b, true)

	now := time.Now().Unix()
	group, gctx := errgroup.WithContext(ctx)
	for i := range b.Slots {
		slot := &b.Slots[i]
		if slot.ErrCode != models.Success {
			e.emitFailure(ctx, *slot, now)
			continue
		}
		e.rememberStatusCodes(slot.Item.ItemID, slot.Item.StatusCodes)
		group.Go(func() error {
			hc := &models.HttpContext{
				ItemID:    slot.Item.ItemID,
				HostID:    slot.Item.Host.HostID,
				ValueType: slot.Item.ValueType,
				Flags:     slot.Item.Flags,
				State:     slot.Item.State,
			}
			return e.Driver.Submit(gctx, hc, slot.Item)
		})
	}
	if err := group.Wait(); err != nil && e.Log != nil {
		e.Log.Warn("http engine: submit failed", logger.String("err", err.Error()))
	}
}

// drain Дренирует завершённые запросы мультиплексора. Все значения,
// дренированные за один вызов, получают один и тот же ts — различаются они
// по itemid (§4.4 "Ordering and timestamps").
func (e *Engine) drain(ctx context.Context) {
	completions := e.Driver.Drain()
	if len(completions) == 0 {
		return
	}
	ts := time.Now().Unix()

	for _, c := range completions {
		var result models.Result
		errCode := models.Success
		switch {
		case c.Err != nil:
			result.SetMsg(c.Err.Error())
			errCode = models.NotSupported
		case !matchStatusCode(e.takeStatusCodes(c.ItemID), c.StatusCode):
			// §9 открытый вопрос: в оригинале фильтрация по status_codes
			// закомментирована в асинхронном пути; спека требует её
			// включить и зеркалить синхронную семантику — несовпадение
			// кода трактуется как NotSupported, а не как транспортная
			// ошибка.
			result.SetMsg("response code \"" + strconv.Itoa(c.StatusCode) + "\" did not match any of the required status codes")
			errCode = models.NotSupported
		default:
			result.SetText(c.Body)
		}

		state := models.StateNormal
		if errCode != models.Success {
			state = models.StateNotSupported
		}

		_ = e.Preprocessor.Submit(ctx, ports.PreprocessValue{
			ItemID:  c.ItemID,
			State:   state,
			Result:  result,
			ErrCode: errCode,
			Ts:      ts,
		})

		if _, err := e.ConfigCache.Requeue(ctx, c.ItemID, ts, errCode, models.PollerNormal); err != nil && e.Log != nil {
			e.Log.Error("http engine: requeue failed", logger.Int64("itemid", c.ItemID), logger.String("err", err.Error()))
		}
	}
}

func (e *Engine) emitFailure(ctx context.Context, slot models.ItemSlot, ts int64) {
	_ = e.Preprocessor.Submit(ctx, ports.PreprocessValue{
		ItemID:  slot.Item.ItemID,
		State:   models.StateNotSupported,
		Result:  slot.Result,
		ErrCode: slot.ErrCode,
		Ts:      ts,
	})
	if _, err := e.ConfigCache.Requeue(ctx, slot.Item.ItemID, ts, slot.ErrCode, models.PollerNormal); err != nil && e.Log != nil {
		e.Log.Error("http engine: requeue failed", logger.Int64("itemid", slot.Item.ItemID), logger.String("err", err.Error()))
	}
}
