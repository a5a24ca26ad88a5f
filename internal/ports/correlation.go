package ports

import "github.com/google/uuid"

// NewBatchID Генерирует корреляционный идентификатор партии для логов.
// PollerLoop пишет его в отладочную запись о выбранной партии; остальные
// записи цикла его не содержат. Не часть протокола, чисто диагностика.
func NewBatchID() string {
	return uuid.NewString()
}
