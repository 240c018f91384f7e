package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

type OrderID int64
type OrderSide int
type OrderType int
type OrderStatus int

const (
	OrderSideLong OrderSide = iota
	OrderSideShort
)

const (
	OrderTypeLimit OrderType = iota
	OrderTypeMarket
	// OrderTypeStop is reserved. Stop-market execution is not wired into the
	// matching path yet; orders carrying it are rejected by the book.
	OrderTypeStop
)

const (
	OrderStatusNew OrderStatus = iota
	OrderStatusConfirmed
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCanceled
	OrderStatusRejected
	OrderStatusExpired
	OrderStatusOffline
)

func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideLong {
		return OrderSideShort
	}
	return OrderSideLong
}

func (s OrderSide) String() string {
	if s == OrderSideLong {
		return "LONG"
	}
	return "SHORT"
}

func ParseOrderSide(value string) (OrderSide, error) {
	switch strings.ToUpper(value) {
	case "LONG":
		return OrderSideLong, nil
	case "SHORT":
		return OrderSideShort, nil
	default:
		return OrderSideLong, fmt.Errorf("invalid order side: %q", value)
	}
}

type Order struct {
	ID     OrderID     `json:"id"`
	Type   OrderType   `json:"type"`
	Side   OrderSide   `json:"side"`
	Size   fixed.Point `json:"size"`
	Price  fixed.Point `json:"price"`
	Status OrderStatus `json:"status"`

	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

// Fungible reports attribute equality over (side, size, price). It exists as
// a compatibility shim for callers that treat orders as interchangeable; the
// book stores and removes orders by ID only.
func (o Order) Fungible(other Order) bool {
	return o.Side == other.Side && o.Size.Eq(other.Size) && o.Price.Eq(other.Price)
}

func (o Order) String() string {
	return fmt.Sprintf("Order(id=%d, side=%s, size=%s, price=%s)", o.ID, o.Side, o.Size, o.Price)
}

// BracketOrder is an entry intent paired with optional exit prices. A zero
// take-profit or stop-loss price means the leg is absent. The stop-loss leg
// is accepted but not placed; see Account.AddMarketOrder.
type BracketOrder struct {
	Entry      Order       `json:"entry"`
	TakeProfit fixed.Point `json:"take_profit,omitempty"`
	StopLoss   fixed.Point `json:"stop_loss,omitempty"`
}
