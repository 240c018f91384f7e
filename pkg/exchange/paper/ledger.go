package paper

import (
	"fmt"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Position is the account's net exposure ledger: direction, weighted-average
// entry price and non-negative size. It is mutated only by fills and explicit
// closes.
type Position struct {
	symbol     string
	direction  common.Direction
	entryPrice fixed.Point
	size       fixed.Point
}

func NewPosition(symbol string) *Position {
	return &Position{symbol: symbol, direction: common.DirectionFlat}
}

func (p *Position) Direction() common.Direction { return p.direction }
func (p *Position) EntryPrice() fixed.Point     { return p.entryPrice }
func (p *Position) Size() fixed.Point           { return p.size }
func (p *Position) IsOpen() bool                { return p.direction != common.DirectionFlat }

// AddFilledOrder applies a fill to the ledger and returns the realized PnL.
// A same-direction fill re-weights the entry price; an opposite fill offsets
// min(order size, position size), realizing PnL on the offset, and flips the
// position when the fill exceeds it.
func (p *Position) AddFilledOrder(order common.Order) fixed.Point {
	if p.direction == common.DirectionFlat {
		p.direction = order.Side.Direction()
		p.entryPrice = order.Price
		p.size = order.Size
		return fixed.Zero
	}

	if p.direction == order.Side.Direction() {
		newSize := p.size.Add(order.Size)
		p.entryPrice = p.entryPrice.Mul(p.size).Add(order.Price.Mul(order.Size)).Div(newSize)
		p.size = newSize
		return fixed.Zero
	}

	realized := p.offsetPnL(order)
	newSize := p.size.Sub(order.Size).Abs()

	switch {
	case newSize.IsZero():
		p.direction = common.DirectionFlat
		p.entryPrice = fixed.Zero
	case order.Size.Gt(p.size):
		p.direction = order.Side.Direction()
		p.entryPrice = order.Price
	}
	p.size = newSize
	return realized
}

func (p *Position) UnrealizedPnL(markPrice fixed.Point) fixed.Point {
	switch p.direction {
	case common.DirectionLong:
		return p.size.Mul(markPrice.Sub(p.entryPrice))
	case common.DirectionShort:
		return p.size.Mul(p.entryPrice.Sub(markPrice))
	default:
		return fixed.Zero
	}
}

func (p *Position) MaintenanceMargin(markPrice, maintenanceMarginRatio fixed.Point) fixed.Point {
	return p.size.Mul(markPrice).Mul(maintenanceMarginRatio)
}

func (p *Position) InitialMargin(markPrice, initialMarginRatio fixed.Point) fixed.Point {
	return p.size.Mul(markPrice).Mul(initialMarginRatio)
}

// Close realizes the unrealized PnL at the mark and resets the ledger to
// flat.
func (p *Position) Close(markPrice fixed.Point) fixed.Point {
	realized := p.UnrealizedPnL(markPrice)

	p.direction = common.DirectionFlat
	p.entryPrice = fixed.Zero
	p.size = fixed.Zero

	return realized
}

func (p *Position) offsetPnL(order common.Order) fixed.Point {
	offset := fixed.Min(order.Size, p.size)

	if p.direction == common.DirectionLong {
		return order.Price.Sub(p.entryPrice).Mul(offset)
	}
	return p.entryPrice.Sub(order.Price).Mul(offset)
}

func (p *Position) String() string {
	return fmt.Sprintf("Position(symbol=%s, direction=%s, size=%s, entry_price=%s)",
		p.symbol, p.direction, p.size, p.entryPrice)
}
