package ports

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/rtc_mock.go -package=mocks . RTC

// RTCCommand Команда, поступающая по шине runtime-control (аналог
// zbx_rtc команд в оригинале: config cache reload, сервисное завершение).
type RTCCommand int

const (
	// RTCNone Признак "команда не получена", возвращается из Wait по таймауту.
	RTCNone RTCCommand = iota
	// RTCConfigCacheReload Требование немедленно перечитать конфигурацию,
	// не дожидаясь истечения межцикловой паузы.
	RTCConfigCacheReload
	// RTCShutdown Требование завершить цикл опроса и остановиться.
	RTCShutdown
)

// RTC Канал управления временем простоя поллера между циклами. PollerLoop
// спит с помощью Wait вместо безусловного time.Sleep, чтобы реагировать на
// команды сразу, а не по истечении интервала (§4.5 спеки, аналог
// zbx_sleep_loop/zbx_rtc_wait в оригинале).
type RTC interface {
	// Wait Блокируется до получения команды либо истечения d, смотря что
	// наступит раньше. Возвращает RTCNone при истечении таймаута.
	Wait(ctx context.Context, d time.Duration) (RTCCommand, error)
}
