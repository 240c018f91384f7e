package simulation

import (
	"errors"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/exchange/paper"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
)

// ErrSimulationDone signals that the candle sequence is exhausted.
var ErrSimulationDone = errors.New("simulation done")

// Executor steps one run a bar at a time, shaped to serve as a router
// ExecLoop callback so observers drain between bars.
type Executor struct {
	runner  *Runner
	strat   strategy.Strategy
	candles []common.Bar

	account *paper.Account
	result  Result
	cx      *strategy.Context
	idx     int
}

func NewExecutor(runner *Runner, strat strategy.Strategy, candles []common.Bar) *Executor {
	return &Executor{
		runner:  runner,
		strat:   strat,
		candles: candles,
		account: paper.NewAccount(runner.logger, runner.router, paper.Config{
			Symbol:                 runner.cfg.Symbol,
			StartBalance:           runner.cfg.StartBalance,
			InitialMarginRatio:     runner.cfg.InitialMarginRatio,
			MaintenanceMarginRatio: runner.cfg.MaintenanceMarginRatio,
		}),
		result: Result{
			Metrics: metrics.NewTracker(runner.cfg.StartBalance),
		},
		idx: runner.cfg.WarmupBars,
	}
}

// DoOnce advances the run by one bar. Once the candles are exhausted the
// strategy is terminated and every further call returns ErrSimulationDone.
func (e *Executor) DoOnce() error {
	if e.idx >= len(e.candles) {
		if e.cx != nil {
			e.strat.Terminate(e.cx)
			e.cx = nil
		}
		return ErrSimulationDone
	}

	cx, err := e.runner.runBar(e.account, &e.result, e.strat, e.candles, e.idx)
	if err != nil {
		return err
	}
	e.cx = cx
	e.idx++
	return nil
}

func (e *Executor) Account() *paper.Account { return e.account }
func (e *Executor) Result() Result          { return e.result }
