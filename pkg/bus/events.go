package bus

type EventId uint8

const (
	BarEvent EventId = iota
	OrderFilledEvent
	OrderRejectedEvent
	PositionEvent
	CollateralEvent
)
