package ports

import (
	"context"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

//go:generate mockgen -destination=mocks/preprocessor_mock.go -package=mocks . Preprocessor

// PreprocessValue Одно значение, переданное на препроцессинг: исход проверки
// одного элемента партии (успех с результатом, либо ошибка с сообщением и
// кодом в Result.Msg через HasMessage()).
type PreprocessValue struct {
	ItemID    int64
	HostID    int64
	ValueType models.ValueType
	Flags     uint64
	State     models.ItemState
	Result    models.Result
	ErrCode   models.ErrCode
	Ts        int64
	TsNs      int64
}

// Preprocessor Очередь значений на препроцессинг/запись истории. Submit
// кладёт значение без блокировки до тех пор, пока очередь не заполнена —
// заполнение является единственной точкой обратного давления поллера (§4.5,
// §7 спеки, P4). Flush обязан быть вызван ровно один раз за цикл, после
// отправки всех значений партии.
type Preprocessor interface {
	// Submit Добавляет значение в очередь препроцессинга. Блокирует вызывающего,
	// если очередь заполнена — это и есть механизм обратного давления.
	Submit(ctx context.Context, v PreprocessValue) error

	// Flush Сигнализирует препроцессору, что партия полностью передана и
	// накопленные значения можно проталкивать дальше по конвейеру.
	Flush(ctx context.Context) error
}
