package models

// DeltaFlag Битовая маска полей Availability, реально изменённых переходом.
type DeltaFlag uint8

const (
	FlagAvailable DeltaFlag = 1 << iota
	FlagError
	FlagErrorsFrom
	FlagDisableUntil
)

// AvailabilityDelta Сериализуемая запись об изменении доступности интерфейса.
// На партию допускается не более одной дельты на interfaceid (§3 спеки).
type AvailabilityDelta struct {
	InterfaceID int64
	Flags       DeltaFlag
	Agent       Availability
}

// IsSet Сообщает, выставлен ли хотя бы один бит флагов — пустая дельта не
// должна сериализовываться (зеркалит zbx_interface_availability_is_set).
func (d AvailabilityDelta) IsSet() bool {
	return d.Flags != 0
}
