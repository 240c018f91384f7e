package strategy

import (
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/exchange/paper"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Context is what a strategy sees on one bar: the account it trades, the
// candle history up to and including the current bar, and the current bar's
// open price. The simulation loop never exposes future bars here.
type Context struct {
	Account *paper.Account
	Candles []common.Bar
	Price   fixed.Point
	Metrics *metrics.Tracker
}

func (cx *Context) Current() common.Bar {
	return cx.Candles[len(cx.Candles)-1]
}

// Strategy is the per-bar decision surface. Implementations embed Base to
// inherit no-op defaults and override only the hooks they need; the call
// order itself is fixed by Step and cannot be overridden.
type Strategy interface {
	// Hyperparameters declares the strategy's tunable surface. May be empty.
	Hyperparameters() []Parameter
	// SetParams replaces the full hyperparameter assignment.
	SetParams(Params)

	// Before runs first on every bar.
	Before(*Context)
	// UpdatePosition runs after Before, only while a position is open.
	UpdatePosition(*Context)
	// ShouldLong and ShouldShort gate entries. Long is checked first and the
	// two are mutually exclusive within a bar.
	ShouldLong(*Context) bool
	ShouldShort(*Context) bool
	// GoLong and GoShort build the bracket submitted when the matching gate
	// fires.
	GoLong(*Context) common.BracketOrder
	GoShort(*Context) common.BracketOrder
	// After runs last on every bar.
	After(*Context)
	// Terminate runs once when the candle sequence is exhausted.
	Terminate(*Context)
}

// Base provides no-op defaults for every hook. Embed it by value and
// override selectively.
type Base struct {
	HP Params
}

func (b *Base) Hyperparameters() []Parameter         { return nil }
func (b *Base) SetParams(params Params)              { b.HP = params }
func (b *Base) Before(*Context)                      {}
func (b *Base) UpdatePosition(*Context)              {}
func (b *Base) ShouldLong(*Context) bool             { return false }
func (b *Base) ShouldShort(*Context) bool            { return false }
func (b *Base) GoLong(*Context) common.BracketOrder  { return common.BracketOrder{} }
func (b *Base) GoShort(*Context) common.BracketOrder { return common.BracketOrder{} }
func (b *Base) After(*Context)                       {}
func (b *Base) Terminate(*Context)                   {}

// Init populates the default hyperparameter assignment. Call it once after
// construction; an optimizer may overwrite the assignment afterwards.
func Init(s Strategy) {
	s.SetParams(Defaults(s.Hyperparameters()))
}

// Step drives one bar through the fixed hook sequence: Before, then
// UpdatePosition iff a position is open, then at most one of GoLong/GoShort
// guarded by ShouldLong/ShouldShort, then After.
func Step(s Strategy, cx *Context) error {
	s.Before(cx)

	if cx.Account.Position().IsOpen() {
		s.UpdatePosition(cx)
	}

	if err := placeOrder(s, cx); err != nil {
		return err
	}

	s.After(cx)
	return nil
}

func placeOrder(s Strategy, cx *Context) error {
	switch {
	case s.ShouldLong(cx):
		return submit(cx, s.GoLong(cx))
	case s.ShouldShort(cx):
		return submit(cx, s.GoShort(cx))
	default:
		return nil
	}
}

func submit(cx *Context, bracket common.BracketOrder) error {
	filled, err := cx.Account.AddMarketOrder(bracket)
	if err != nil {
		return err
	}
	if cx.Metrics != nil {
		cx.Metrics.NewTrade(filled)
	}
	return nil
}
