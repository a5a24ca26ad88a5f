package memcache

import (
	"context"
	"time"

	"github.com/trsv-dev/zbxpoller/internal/ports"
)

// RTC In-memory реализация ports.RTC поверх одного канала команд — стоит на
// месте настоящей IPC-шины runtime-control оригинала. Commands отправляются
// сервисным кодом (например, обработчиком SIGINT/SIGTERM в cmd/zbxpoller),
// Wait их вычитывает.
type RTC struct {
	commands chan ports.RTCCommand
}

// NewRTC Создаёт шину с заданной ёмкостью буфера команд.
func NewRTC(buffer int) *RTC {
	return &RTC{commands: make(chan ports.RTCCommand, buffer)}
}

// Notify Неблокирующе кладёт команду в очередь; переполнение буфера не
// считается ошибкой — RTC лишь уведомление, не гарантированная доставка.
func (r *RTC) Notify(cmd ports.RTCCommand) {
	select {
	case r.commands <- cmd:
	default:
	}
}

// Wait Блокируется до поступления команды, истечения d или отмены ctx.
func (r *RTC) Wait(ctx context.Context, d time.Duration) (ports.RTCCommand, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ports.RTCNone, ctx.Err()
	case cmd := <-r.commands:
		return cmd, nil
	case <-timer.C:
		return ports.RTCNone, nil
	}
}
