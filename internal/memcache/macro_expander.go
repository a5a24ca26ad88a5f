package memcache

import (
	"fmt"
	"strings"

	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
)

// MacroExpander In-memory реализация ports.MacroExpander: обычная
// подстановка `{$MACRO}` из плоской карты хост→(имя→значение), плюс общий
// набор макросов уровня кэша. Секретные макросы (по имени, содержащему
// "SECRET" или "PASSWORD" без учёта регистра) маскируются в masked-режиме — минимальное, но
// достаточное поведение для справочной/тестовой реализации; полноценное
// вычисление графа макросов (наследование хост→шаблон→глобал) остаётся вне
// бюджета опроса.
type MacroExpander struct {
	Global map[string]string
	Host   map[int64]map[string]string
}

// NewMacroExpander Создаёт пустой экспандер.
func NewMacroExpander() *MacroExpander {
	return &MacroExpander{Global: map[string]string{}, Host: map[int64]map[string]string{}}
}

// Expand Реализует ports.MacroExpander в unmasked-режиме.
func (e *MacroExpander) Expand(item models.Item, scope ports.MacroScope, raw string) (string, error) {
	return e.expand(item, raw, false)
}

// ExpandMasked Реализует ports.MacroExpander в masked-режиме.
func (e *MacroExpander) ExpandMasked(item models.Item, scope ports.MacroScope, raw string) (string, error) {
	return e.expand(item, raw, true)
}

func (e *MacroExpander) expand(item models.Item, raw string, masked bool) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		start := strings.Index(raw[i:], "{$")
		if start < 0 {
			sb.WriteString(raw[i:])
			break
		}
		start += i
		sb.WriteString(raw[i:start])

		end := strings.IndexByte(raw[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated macro in %q", raw)
		}
		end += start

		name := raw[start+2 : end]
		value, ok := e.lookup(item.Host.HostID, name)
		if !ok {
			return "", fmt.Errorf("unresolved macro {$%s}", name)
		}
		if masked && isSecretMacro(name) {
			value = "****"
		}
		sb.WriteString(value)

		i = end + 1
	}
	return sb.String(), nil
}

func (e *MacroExpander) lookup(hostID int64, name string) (string, bool) {
	if host, ok := e.Host[hostID]; ok {
		if v, ok := host[name]; ok {
			return v, true
		}
	}
	v, ok := e.Global[name]
	return v, ok
}

func isSecretMacro(name string) bool {
	upper := strings.ToUpper(name)
	return strings.Contains(upper, "SECRET") || strings.Contains(upper, "PASSWORD")
}
