// Package simplecheck реализует драйвер Simple-проверок поверх ICMP echo,
// перенесено из internal/netutils.NetworkChecker.CheckICMP оригинального
// репозитория-учителя.
package simplecheck

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

const defaultTimeout = 1 * time.Second

// ICMPDriver Драйвер Simple-элементов вида "icmpping"/"icmppingsec":
// отправляет один ICMP echo-запрос и сообщает, ответил ли узел.
type ICMPDriver struct {
	Timeout time.Duration
}

// Check Реализует checks.Driver для ItemType == models.Simple.
func (d ICMPDriver) Check(ctx context.Context, item models.Item) (models.Result, models.ErrCode) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	addr := item.Interface
	if addr == nil {
		var r models.Result
		r.SetMsg("simple check requires an interface address")
		return r, models.ConfigError
	}

	pinger, err := probing.NewPinger(addr.Addr)
	if err != nil {
		var r models.Result
		r.SetMsg(fmt.Sprintf("cannot resolve %q: %s", addr.Addr, err))
		return r, models.NetworkError
	}
	pinger.SetPrivileged(true)
	pinger.Count = 1
	pinger.Interval = 200 * time.Millisecond
	pinger.Timeout = timeout

	done := make(chan error, 1)
	go func() { done <- pinger.Run() }()

	select {
	case <-ctx.Done():
		pinger.Stop()
		var r models.Result
		r.SetMsg("check cancelled")
		return r, models.SignalError
	case err := <-done:
		if err != nil {
			var r models.Result
			r.SetMsg(fmt.Sprintf("icmp ping failed: %s", err))
			return r, models.NetworkError
		}
	}

	recv := pinger.Statistics().PacketsRecv
	var r models.Result
	if recv > 0 {
		v := float64(recv)
		r.Numeric = &v
		return r, models.Success
	}
	r.SetMsg("no reply to icmp echo")
	return r, models.TimeoutError
}
