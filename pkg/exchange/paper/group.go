package paper

import (
	"fmt"

	"github.com/google/btree"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

const priceTreeDegree = 8

// priceLevel is a FIFO bucket of resting orders sharing one exact price.
type priceLevel struct {
	price  fixed.Point
	orders []common.Order
}

// sideGroup holds the resting orders of one side, indexed by price in a
// B-tree so min/max and inclusive range scans stay O(log n + k).
type sideGroup struct {
	side          common.OrderSide
	tree          *btree.BTreeG[*priceLevel]
	totalSize     fixed.Point
	totalNotional fixed.Point
}

func newSideGroup(side common.OrderSide) *sideGroup {
	return &sideGroup{
		side: side,
		tree: btree.NewG(priceTreeDegree, func(a, b *priceLevel) bool {
			return a.price.Lt(b.price)
		}),
	}
}

func (g *sideGroup) add(order common.Order) {
	key := &priceLevel{price: order.Price}
	level, ok := g.tree.Get(key)
	if !ok {
		level = key
		g.tree.ReplaceOrInsert(level)
	}
	level.orders = append(level.orders, order)

	g.totalSize = g.totalSize.Add(order.Size)
	g.totalNotional = g.totalNotional.Add(order.Size.Mul(order.Price))
}

func (g *sideGroup) remove(order common.Order) error {
	level, ok := g.tree.Get(&priceLevel{price: order.Price})
	if !ok {
		return fmt.Errorf("%w: id %d at price %s", ErrOrderNotFound, order.ID, order.Price)
	}

	idx := -1
	for i := range level.orders {
		if level.orders[i].ID == order.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: id %d at price %s", ErrOrderNotFound, order.ID, order.Price)
	}

	removed := level.orders[idx]
	level.orders = append(level.orders[:idx], level.orders[idx+1:]...)
	if len(level.orders) == 0 {
		g.tree.Delete(level)
	}

	g.totalSize = g.totalSize.Sub(removed.Size)
	g.totalNotional = g.totalNotional.Sub(removed.Size.Mul(removed.Price))
	return nil
}

func (g *sideGroup) minPrice() (fixed.Point, bool) {
	level, ok := g.tree.Min()
	if !ok {
		return fixed.Zero, false
	}
	return level.price, true
}

func (g *sideGroup) maxPrice() (fixed.Point, bool) {
	level, ok := g.tree.Max()
	if !ok {
		return fixed.Zero, false
	}
	return level.price, true
}

// ordersInRange returns the resting orders with low <= price <= high, price
// ascending, insertion order preserved within a price level.
func (g *sideGroup) ordersInRange(low, high fixed.Point) []common.Order {
	var out []common.Order
	g.tree.AscendGreaterOrEqual(&priceLevel{price: low}, func(level *priceLevel) bool {
		if level.price.Gt(high) {
			return false
		}
		out = append(out, level.orders...)
		return true
	})
	return out
}

func (g *sideGroup) orderCount() int {
	count := 0
	g.tree.Ascend(func(level *priceLevel) bool {
		count += len(level.orders)
		return true
	})
	return count
}
