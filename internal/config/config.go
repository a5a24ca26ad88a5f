package config

import (
	"flag"
	"os"
	"strings"
)

// Config Конфигурация экземпляра поллера, полученная из флагов или
// переменных окружения (переменные окружения имеют приоритет, как и в
// оригинальном подходе учителя).
type Config struct {
	RunAddress string

	PollerType string // "normal", "unreachable", "history"

	FetchTimeoutSeconds  int
	PollerDelaySeconds   int
	StatIntervalSeconds  int
	UnavailableDelaySeconds  int
	UnreachablePeriodSeconds int
	UnreachableDelaySeconds  int

	HTTPEngineEnabled bool
	HTTPTickMillis    int

	EventsEnabled bool // монтировать SSE-наблюдаемость (internal/transport/sse)

	WinRMPort             string
	WinRMUseHTTPS         bool
	WinRMInsecureForHTTPS bool

	LogLevel  string
	LogOutput string
}

// InitConfig Инициализация конфигурации поллера из флагов/окружения.
func InitConfig() *Config {
	config := &Config{}

	flag.StringVar(&config.RunAddress, "a", "127.0.0.1:8081", "HTTP address for the SSE observability endpoint")
	flag.StringVar(&config.PollerType, "t", "normal", "Poller type: normal, unreachable, history")
	flag.IntVar(&config.FetchTimeoutSeconds, "fetch-timeout", 5, "ConfigCache.FetchDue timeout, seconds")
	flag.IntVar(&config.PollerDelaySeconds, "poller-delay", 5, "Upper bound of the inter-cycle sleep when no items are due, seconds (POLLER_DELAY)")
	flag.IntVar(&config.StatIntervalSeconds, "stat-interval", 5, "How often cycle statistics are logged, seconds")
	flag.IntVar(&config.UnavailableDelaySeconds, "unavailable-delay", 300, "Disable-until window once an interface is marked unavailable, seconds")
	flag.IntVar(&config.UnreachablePeriodSeconds, "unreachable-period", 45, "Grace period before an unreachable interface is marked unavailable, seconds")
	flag.IntVar(&config.UnreachableDelaySeconds, "unreachable-delay", 15, "Disable-until window while an interface is still within the unreachable grace period, seconds")
	flag.BoolVar(&config.HTTPEngineEnabled, "http-engine", false, "Run the HttpAsyncEngine instead of the synchronous PollerLoop")
	flag.IntVar(&config.HTTPTickMillis, "http-tick-ms", 1000, "AddItems tick interval for HttpAsyncEngine, milliseconds")
	flag.BoolVar(&config.EventsEnabled, "events", true, "Mount the SSE observability endpoints")
	flag.StringVar(&config.WinRMPort, "wp", "5985", "WinRM port used by the SSH-item driver (Default: 5985, https alternative: 5986)")
	flag.BoolVar(&config.WinRMUseHTTPS, "https", false, "Use HTTPS for WinRM connections")
	flag.BoolVar(&config.WinRMInsecureForHTTPS, "ssl", false, "Skip TLS verification for WinRM HTTPS connections")
	flag.StringVar(&config.LogLevel, "ll", "Info", "Log level (Debug, Info, Warn, Error)")
	flag.StringVar(&config.LogOutput, "lo", "stdout", "Log output: 'stdout' or a path to a log file")
	flag.Parse()

	if value, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		config.RunAddress = value
	}
	if value, ok := os.LookupEnv("POLLER_TYPE"); ok {
		config.PollerType = value
	}
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		config.LogLevel = value
	}
	if value, ok := os.LookupEnv("LOG_OUTPUT"); ok {
		config.LogOutput = value
	}
	if value, ok := os.LookupEnv("WINRM_PORT"); ok {
		config.WinRMPort = value
	}
	if value, ok := os.LookupEnv("WINRM_USE_HTTPS"); ok {
		config.WinRMUseHTTPS = parseBool(value, config.WinRMUseHTTPS)
	}
	if value, ok := os.LookupEnv("WINRM_INSECURE_FOR_HTTPS"); ok {
		config.WinRMInsecureForHTTPS = parseBool(value, config.WinRMInsecureForHTTPS)
	}
	if value, ok := os.LookupEnv("HTTP_ENGINE"); ok {
		config.HTTPEngineEnabled = parseBool(value, config.HTTPEngineEnabled)
	}
	if value, ok := os.LookupEnv("EVENTS_ENABLED"); ok {
		config.EventsEnabled = parseBool(value, config.EventsEnabled)
	}

	return config
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
