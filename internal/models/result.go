package models

// Result Итог одной проверки: типизированное значение, сообщение об ошибке,
// либо и то, и другое сразу (элементы с множественным результатом, например
// события лога, несут вектор саб-результатов).
type Result struct {
	Numeric *float64
	Text    string
	HasText bool
	Log     *LogValue
	Binary  []byte
	Msg     string
	HasMsg  bool

	// SubResults заполняется драйверами, возвращающими несколько значений за
	// одну проверку (например, события лога/vmware.eventlog). Пусто для
	// обычных проверок.
	SubResults []Result
}

// LogValue Значение лог-типа.
type LogValue struct {
	Value     string
	Timestamp int64
	Source    string
	Severity  int
	LogEventID int
}

// SetMsg Фиксирует сообщение об ошибке в результате (эквивалент SET_MSG_RESULT).
func (r *Result) SetMsg(msg string) {
	r.Msg = msg
	r.HasMsg = true
}

// SetText Фиксирует текстовое значение (эквивалент SET_TEXT_RESULT).
func (r *Result) SetText(text string) {
	r.Text = text
	r.HasText = true
}

// HasMessage Сообщает, задано ли сообщение в результате.
func (r *Result) HasMessage() bool {
	return r.HasMsg && r.Msg != ""
}
