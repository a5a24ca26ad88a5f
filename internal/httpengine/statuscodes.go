package httpengine

import (
	"strconv"
	"strings"
)

// matchStatusCode Проверяет код ответа против поля status_codes элемента
// (список диапазонов вида "200-299,304,401-403", как в синхронном драйвере).
// Пустой список — любой код подходит. Нераспознанные диапазоны пропускаются,
// а не приводят к ошибке подготовки; непустой список, в котором не нашлось ни
// одного распознанного диапазона, не пропускает ни один код.
func matchStatusCode(statusCodes string, code int) bool {
	statusCodes = strings.TrimSpace(statusCodes)
	if statusCodes == "" {
		return true
	}
	for _, part := range strings.Split(statusCodes, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := parseStatusRange(part)
		if !ok {
			continue
		}
		if code >= lo && code <= hi {
			return true
		}
	}
	return false
}

func parseStatusRange(part string) (lo, hi int, ok bool) {
	if before, after, found := strings.Cut(part, "-"); found {
		lo, err1 := strconv.Atoi(strings.TrimSpace(before))
		hi, err2 := strconv.Atoi(strings.TrimSpace(after))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return lo, hi, true
	}
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, 0, false
	}
	return v, v, true
}
