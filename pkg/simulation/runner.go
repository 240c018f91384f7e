package simulation

import (
	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/bus"
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/exchange/paper"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Result carries what reporting consumes: two equal-length series of mark
// prices and post-bar total collateral, plus the trade tracker.
type Result struct {
	Prices     []fixed.Point
	Collateral []fixed.Point
	Metrics    *metrics.Tracker
}

// Runner drives one account through a candle sequence, bar by bar. Each Run
// constructs a fresh account, so independent runs are safe to execute in
// parallel with their own runners.
type Runner struct {
	logger *zap.Logger
	router *bus.Router
	cfg    Configuration
}

// NewRunner wires a runner. The router may be nil when no observers are
// attached.
func NewRunner(logger *zap.Logger, router *bus.Router, cfg Configuration) *Runner {
	return &Runner{
		logger: logger,
		router: router,
		cfg:    cfg,
	}
}

// Run simulates the strategy over the candle sequence, starting after the
// warm-up offset. Per bar, strictly in order: the account is marked with the
// bar's open (the no-lookahead boundary), the strategy hooks run over the
// history slice, and only then are fills evaluated against the bar's
// low/high. The final account is returned alongside the output series.
func (r *Runner) Run(strat strategy.Strategy, candles []common.Bar) (*paper.Account, Result, error) {
	account := paper.NewAccount(r.logger, r.router, paper.Config{
		Symbol:                 r.cfg.Symbol,
		StartBalance:           r.cfg.StartBalance,
		InitialMarginRatio:     r.cfg.InitialMarginRatio,
		MaintenanceMarginRatio: r.cfg.MaintenanceMarginRatio,
	})

	result := Result{
		Metrics: metrics.NewTracker(r.cfg.StartBalance),
	}

	var cx *strategy.Context
	for i := r.cfg.WarmupBars; i < len(candles); i++ {
		var err error
		if cx, err = r.runBar(account, &result, strat, candles, i); err != nil {
			return account, result, err
		}
	}

	if cx != nil {
		strat.Terminate(cx)
	}
	return account, result, nil
}

func (r *Runner) runBar(account *paper.Account, result *Result, strat strategy.Strategy, candles []common.Bar, i int) (*strategy.Context, error) {
	bar := candles[i]

	account.SetSimulationTime(bar.StartTime())
	result.Metrics.NewCandle()
	r.postBar(bar)

	// Mark with the open only; high, low and close are still in the
	// future at decision time.
	account.UpdatePnL(bar.Open)

	cx := &strategy.Context{
		Account: account,
		Candles: candles[:i+1],
		Price:   bar.Open,
		Metrics: result.Metrics,
	}
	if err := strategy.Step(strat, cx); err != nil {
		return cx, err
	}

	// Orders placed on open-price information may fill intra-bar, as may
	// orders resting from previous bars.
	if err := account.CheckForFilledOrders(bar.Low, bar.High); err != nil {
		return cx, err
	}

	result.Prices = append(result.Prices, bar.Open)
	result.Collateral = append(result.Collateral, account.Collateral().TotalCollateral())
	return cx, nil
}

func (r *Runner) postBar(bar common.Bar) {
	if r.router == nil {
		return
	}
	if err := r.router.Post(bus.BarEvent, bar); err != nil {
		r.logger.Warn("unable to post bar event", zap.Error(err))
	}
}
