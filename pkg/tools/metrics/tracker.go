package metrics

import (
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// TradeRecord ties a filled entry order to the candle index it was submitted
// on.
type TradeRecord struct {
	Order       common.Order
	CandleIndex int
}

// Tracker counts the trades a strategy submits during one run. The simulation
// loop advances the candle index; the strategy driver records fills.
type Tracker struct {
	startingBalance fixed.Point

	totalTrades int
	totalLongs  int
	totalShorts int

	orderHistory []TradeRecord

	currentCandleIndex int
}

func NewTracker(startingBalance fixed.Point) *Tracker {
	return &Tracker{
		startingBalance:    startingBalance,
		currentCandleIndex: -1,
	}
}

func (t *Tracker) NewCandle() {
	t.currentCandleIndex++
}

// NewTrade records a filled entry order. A nil order (entry skipped for
// insufficient margin) is ignored.
func (t *Tracker) NewTrade(order *common.Order) {
	if order == nil {
		return
	}

	t.totalTrades++
	if order.Side == common.OrderSideLong {
		t.totalLongs++
	} else {
		t.totalShorts++
	}

	t.orderHistory = append(t.orderHistory, TradeRecord{
		Order:       *order,
		CandleIndex: t.currentCandleIndex,
	})
}

func (t *Tracker) StartingBalance() fixed.Point { return t.startingBalance }
func (t *Tracker) TotalTrades() int             { return t.totalTrades }
func (t *Tracker) TotalLongs() int              { return t.totalLongs }
func (t *Tracker) TotalShorts() int             { return t.totalShorts }
func (t *Tracker) History() []TradeRecord       { return t.orderHistory }
