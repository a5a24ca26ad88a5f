package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/trsv-dev/zbxpoller/internal/availability"
	"github.com/trsv-dev/zbxpoller/internal/checks"
	"github.com/trsv-dev/zbxpoller/internal/checks/simplecheck"
	"github.com/trsv-dev/zbxpoller/internal/checks/winrmcheck"
	"github.com/trsv-dev/zbxpoller/internal/config"
	"github.com/trsv-dev/zbxpoller/internal/dispatcher"
	"github.com/trsv-dev/zbxpoller/internal/httpengine"
	"github.com/trsv-dev/zbxpoller/internal/logger"
	"github.com/trsv-dev/zbxpoller/internal/memcache"
	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/poller"
	"github.com/trsv-dev/zbxpoller/internal/ports"
	"github.com/trsv-dev/zbxpoller/internal/preparer"
	"github.com/trsv-dev/zbxpoller/internal/transport/sse"
)

// Сборка и запуск одного экземпляра поллера. В духе оригинала, где каждый
// тип поллера (normal/unreachable/history/http) — отдельный процесс внутри
// одного демона, этот бинарник запускает ровно один экземпляр: либо
// синхронный poller.Loop заданного типа, либо HttpAsyncEngine (-http-engine).
func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Паника в main:", fmt.Sprintf("%v", r))
		}
	}()

	if errEnv := godotenv.Load("../../.env.development"); errEnv != nil {
		log.Println("Не удалось загрузить .env:", errEnv)
	}

	cfg := config.InitConfig()

	logger.InitLogger(cfg.LogLevel, cfg.LogOutput)
	defer logger.Log.(*logger.SlogAdapter).Close()

	configCache := memcache.NewConfigCache()
	macroExpander := memcache.NewMacroExpander()
	rtc := memcache.NewRTC(4)

	var availabilityBus ports.AvailabilityBus
	var preprocessor ports.Preprocessor
	var sseAvailabilityBus *sse.AvailabilityBus
	var ssePreprocessor *sse.Preprocessor

	if cfg.EventsEnabled {
		sseAvailabilityBus = sse.NewAvailabilityBus()
		sseAvailabilityBus.Log = logger.Log
		ssePreprocessor = sse.NewPreprocessor()
		ssePreprocessor.Log = logger.Log
		availabilityBus = sseAvailabilityBus
		preprocessor = ssePreprocessor
	} else {
		availabilityBus = memcache.NewAvailabilityBus()
		preprocessor = memcache.NewPreprocessor()
	}

	prep := preparer.Preparer{Expander: macroExpander}

	winrmConfig := config.NewWinRMConfig(cfg, 10*time.Second)

	disp := dispatcher.Dispatcher{
		Drivers: map[models.ItemType]checks.Driver{
			models.Simple: simplecheck.ICMPDriver{},
			models.SSH:    winrmcheck.Driver{WinRM: winrmConfig},
		},
	}

	fsm := availability.FSM{Log: logger.Log}
	grace := availability.Grace{
		UnavailableDelay:  time.Duration(cfg.UnavailableDelaySeconds) * time.Second,
		UnreachablePeriod: time.Duration(cfg.UnreachablePeriodSeconds) * time.Second,
		UnreachableDelay:  time.Duration(cfg.UnreachableDelaySeconds) * time.Second,
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if cfg.HTTPEngineEnabled {
		engine := &httpengine.Engine{
			ConfigCache:  configCache,
			Preparer:     prep,
			Preprocessor: preprocessor,
			Driver:       httpengine.NewNetHTTPDriver(nil),
			Log:          logger.Log,
			TickInterval: time.Duration(cfg.HTTPTickMillis) * time.Millisecond,
			FetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := engine.Run(runCtx); err != nil && runCtx.Err() == nil {
				errCh <- fmt.Errorf("http engine: %w", err)
			}
		}()
		defer engine.Stop()
	} else {
		loop := &poller.Loop{
			ConfigCache:     configCache,
			Preparer:        prep,
			Dispatcher:      disp,
			FSM:             fsm,
			Buffer:          availability.NewBatchBuffer(),
			Preprocessor:    preprocessor,
			AvailabilityBus: availabilityBus,
			RTC:             rtc,
			Log:             logger.Log,
			Config: poller.Config{
				PollerType:   parsePollerType(cfg.PollerType),
				FetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
				PollerDelay:  time.Duration(cfg.PollerDelaySeconds) * time.Second,
				Grace:        grace,
				StatInterval: time.Duration(cfg.StatIntervalSeconds) * time.Second,
			},
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Run(runCtx); err != nil && runCtx.Err() == nil {
				errCh <- fmt.Errorf("poller loop: %w", err)
			}
		}()
	}

	var httpSrv *http.Server
	if cfg.EventsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/events/availability", sseAvailabilityBus.HTTPHandler())
		mux.Handle("/events/values", ssePreprocessor.HTTPHandler())
		httpSrv = &http.Server{Addr: cfg.RunAddress, Handler: mux}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Log.Error("events http server failed", logger.String("err", err.Error()))
			}
		}()
		logger.Log.Info("events endpoint listening", logger.String("addr", cfg.RunAddress))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		logger.Log.Error("poller exited with error", logger.String("err", err.Error()))
	case sig := <-stop:
		logger.Log.Info("получен сигнал остановки", logger.String("sig", sig.String()))
		rtc.Notify(ports.RTCShutdown)
	}

	logger.Log.Info("начало процедуры остановки поллера...")
	cancelRun()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Log.Info("поллер остановлен")
	case <-time.After(5 * time.Second):
		logger.Log.Warn("таймаут остановки поллера")
	}

	if cfg.EventsEnabled {
		if err := sseAvailabilityBus.Close(); err != nil {
			logger.Log.Warn("ошибка закрытия availability bus", logger.String("err", err.Error()))
		}
		if err := ssePreprocessor.Close(); err != nil {
			logger.Log.Warn("ошибка закрытия preprocessor", logger.String("err", err.Error()))
		}
		if httpSrv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 7*time.Second)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Log.Error("ошибка остановки events http server", logger.String("err", err.Error()))
			}
		}
	}

	logger.Log.Info("приложение завершено")
}

func parsePollerType(s string) models.PollerType {
	switch s {
	case "unreachable":
		return models.PollerUnreachable
	case "history":
		return models.PollerHistory
	default:
		return models.PollerNormal
	}
}
