package poller

import (
	"time"

	"github.com/trsv-dev/zbxpoller/internal/logger"
)

// CycleStats Накопитель статистики по циклам опроса, логируемый раз в
// StatInterval вместо setproctitle("polling NN items"), который
// original_source/poller.c использует, чтобы статус был виден в `ps`; в Go
// процессе эквивалентного системного вызова нет, поэтому статистика просто
// идёт в структурированный лог с тем же смыслом — "сколько элементов
// обработано с последнего отчёта".
type CycleStats struct {
	cycles     int64
	items      int64
	lastLogged time.Time
}

// Record Учитывает завершившийся цикл.
func (s *CycleStats) Record(itemCount int) {
	s.cycles++
	s.items += int64(itemCount)
}

// MaybeLog Логирует и сбрасывает счётчики, если прошло не меньше interval
// с последнего отчёта.
func (s *CycleStats) MaybeLog(log logger.Logger, pollerType string, interval time.Duration) {
	if log == nil {
		return
	}
	if s.lastLogged.IsZero() {
		s.lastLogged = time.Now()
		return
	}
	if time.Since(s.lastLogged) < interval {
		return
	}
	log.Info("poller cycle stats",
		logger.String("poller_type", pollerType),
		logger.Int64("cycles", s.cycles),
		logger.Int64("items", s.items),
	)
	s.cycles, s.items = 0, 0
	s.lastLogged = time.Now()
}
