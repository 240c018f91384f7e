package simulation

import (
	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// ObjectiveFunc evaluates one hyperparameter assignment and returns the
// scalar an external optimizer maximizes.
type ObjectiveFunc func(strategy.Params) (fixed.Point, error)

// Objective builds the optimizer contract over a fixed candle range: each
// call constructs a fresh strategy and account, runs one simulation and
// returns the final total collateral. Evaluations are independent, so
// callers may invoke the returned function from parallel goroutines as long
// as each goroutine uses its own Objective.
func Objective(logger *zap.Logger, cfg Configuration, factory func() strategy.Strategy, candles []common.Bar) ObjectiveFunc {
	return func(params strategy.Params) (fixed.Point, error) {
		strat := factory()
		strategy.Init(strat)
		if params != nil {
			strat.SetParams(params)
		}

		runner := NewRunner(logger, nil, cfg)
		account, _, err := runner.Run(strat, candles)
		if err != nil {
			return fixed.Zero, err
		}
		return account.Collateral().TotalCollateral(), nil
	}
}
