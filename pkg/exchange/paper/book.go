package paper

import (
	"fmt"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// IDGenerator hands out monotonically increasing order identities. It is
// process-local state owned by the account that created it, which keeps
// parallel runs isolated and reproducible.
type IDGenerator struct {
	last common.OrderID
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) Next() common.OrderID {
	g.last++
	return g.last
}

// OrderBook stores resting limit orders for one symbol, grouped by side and
// indexed by price. Storage and removal are identity-based; attribute
// equality between orders plays no part here.
type OrderBook struct {
	symbol string
	ids    *IDGenerator

	longs  *sideGroup
	shorts *sideGroup
	orders map[common.OrderID]common.Order
}

func NewOrderBook(symbol string, ids *IDGenerator) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		ids:    ids,
		longs:  newSideGroup(common.OrderSideLong),
		shorts: newSideGroup(common.OrderSideShort),
		orders: make(map[common.OrderID]common.Order),
	}
}

// Add accepts a resting order, assigning an identity when the order carries
// none, and returns the stored order.
func (b *OrderBook) Add(order common.Order) (common.Order, error) {
	if order.ID == 0 {
		order.ID = b.ids.Next()
	}
	if _, exists := b.orders[order.ID]; exists {
		return common.Order{}, fmt.Errorf("%w: id %d", ErrDuplicateOrder, order.ID)
	}

	order.Symbol = b.symbol
	b.orders[order.ID] = order
	b.group(order.Side).add(order)
	return order, nil
}

func (b *OrderBook) Remove(order common.Order) error {
	stored, exists := b.orders[order.ID]
	if !exists {
		return fmt.Errorf("%w: id %d", ErrOrderNotFound, order.ID)
	}

	if err := b.group(stored.Side).remove(stored); err != nil {
		return err
	}
	delete(b.orders, stored.ID)
	return nil
}

// Triggered returns the resting orders considered filled by a bar trading
// through [low, high]: long orders from low up to the highest resting long
// price, then short orders from the lowest resting short price up to high.
// Results are price ascending per side, FIFO within a price level. Every
// triggered order fills for its full size.
func (b *OrderBook) Triggered(low, high fixed.Point) []common.Order {
	var triggered []common.Order

	if maxLong, ok := b.longs.maxPrice(); ok && low.Lte(maxLong) {
		triggered = append(triggered, b.longs.ordersInRange(low, maxLong)...)
	}
	if minShort, ok := b.shorts.minPrice(); ok && high.Gte(minShort) {
		triggered = append(triggered, b.shorts.ordersInRange(minShort, high)...)
	}
	return triggered
}

// Clear drops all resting orders unconditionally. Identity state survives so
// later orders never reuse an id.
func (b *OrderBook) Clear() {
	b.longs = newSideGroup(common.OrderSideLong)
	b.shorts = newSideGroup(common.OrderSideShort)
	b.orders = make(map[common.OrderID]common.Order)
}

func (b *OrderBook) Len() int {
	return len(b.orders)
}

func (b *OrderBook) TotalSize(side common.OrderSide) fixed.Point {
	return b.group(side).totalSize
}

func (b *OrderBook) TotalNotional(side common.OrderSide) fixed.Point {
	return b.group(side).totalNotional
}

func (b *OrderBook) group(side common.OrderSide) *sideGroup {
	if side == common.OrderSideLong {
		return b.longs
	}
	return b.shorts
}
