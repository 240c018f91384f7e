package common

import (
	"time"

	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

type Direction int

const (
	DirectionFlat Direction = iota
	DirectionLong
	DirectionShort
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "LONG"
	case DirectionShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}

func (d Direction) Side() (OrderSide, bool) {
	switch d {
	case DirectionLong:
		return OrderSideLong, true
	case DirectionShort:
		return OrderSideShort, true
	default:
		return OrderSideLong, false
	}
}

func (s OrderSide) Direction() Direction {
	if s == OrderSideLong {
		return DirectionLong
	}
	return DirectionShort
}

// Position is a point-in-time snapshot of the account's net exposure,
// published on the bus after fills and marks.
type Position struct {
	Direction     Direction   `json:"direction"`
	EntryPrice    fixed.Point `json:"entry_price"`
	Size          fixed.Point `json:"size"`
	UnrealizedPnL fixed.Point `json:"unrealized_pnl"`

	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
