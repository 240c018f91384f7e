package main

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	exstrategy "github.com/quantarc/perpsim/examples/strategy"
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/datasource/duckdb"
	"github.com/quantarc/perpsim/pkg/dbg"
	"github.com/quantarc/perpsim/pkg/simulation"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

type trial struct {
	params strategy.Params
	value  fixed.Point
}

func main() {
	logger := dbg.NewLogger(true)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	defer logger.Info("done")

	reader := duckdb.NewReader(BarDataSource)
	if err := reader.Connect(); err != nil {
		logger.Fatal("error connecting to candle store", zap.Error(err))
	}
	defer reader.Close()

	var candles []common.Bar
	err := reader.LoadBars(context.Background(), Symbol, BarPeriod, SweepStart, SweepEnd, func(bar common.Bar) error {
		candles = append(candles, bar)
		return nil
	})
	if err != nil {
		logger.Fatal("error loading candles", zap.Error(err))
	}
	logger.Info("candles loaded", zap.Int("count", len(candles)))

	parameters := exstrategy.NewTrend().Hyperparameters()

	assignments := make(chan strategy.Params, Trials)
	rng := rand.New(rand.NewSource(Seed))
	for i := 0; i < Trials; i++ {
		assignments <- sample(rng, parameters)
	}
	close(assignments)

	results := make(chan trial, Trials)

	var wg sync.WaitGroup
	for w := 0; w < Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Evaluations share nothing, so each worker owns an objective.
			objective := simulation.Objective(zap.NewNop(), SweepConfiguration, func() strategy.Strategy {
				return exstrategy.NewTrend()
			}, candles)

			for params := range assignments {
				value, err := objective(params)
				if err != nil {
					logger.Warn("trial failed", zap.Error(err))
					continue
				}
				results <- trial{params: params, value: value}
			}
		}()
	}

	wg.Wait()
	close(results)

	evaluated := 0
	var best *trial
	for result := range results {
		evaluated++
		if best == nil || result.value.Gt(best.value) {
			r := result
			best = &r
		}
	}

	if best == nil {
		logger.Error("no successful trials")
		return
	}

	logger.Info("sweep finished",
		zap.Int("trials", evaluated),
		zap.String("best_value", best.value.String()),
		zap.Any("best_params", best.params))
}

func sample(rng *rand.Rand, parameters []strategy.Parameter) strategy.Params {
	params := make(strategy.Params, len(parameters))
	for _, parameter := range parameters {
		value := parameter.Min + rng.Float64()*(parameter.Max-parameter.Min)
		if parameter.Kind == strategy.ParamInt {
			value = float64(int(value + 0.5))
		}
		params[parameter.Name] = value
	}
	return params
}
