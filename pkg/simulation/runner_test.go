package simulation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/simulation"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func testConfiguration() simulation.Configuration {
	return simulation.Configuration{
		Symbol:                 "BTCUSDT",
		StartBalance:           fixed.FromInt64(1000, 0),
		InitialMarginRatio:     fixed.FromInt64(1, 1),
		MaintenanceMarginRatio: fixed.FromInt64(5, 2),
	}
}

func makeBar(start int64, open, high, low, closePrice int64) common.Bar {
	return common.Bar{
		Start:  start,
		Period: time.Minute,
		Open:   fixed.FromInt64(open, 0),
		High:   fixed.FromInt64(high, 0),
		Low:    fixed.FromInt64(low, 0),
		Close:  fixed.FromInt64(closePrice, 0),
	}
}

// probe records what the strategy observed on each bar.
type probe struct {
	strategy.Base

	buyOnBar int

	seenLens   []int
	seenPrices []fixed.Point
	terminated int
}

func (p *probe) Before(cx *strategy.Context) {
	p.seenLens = append(p.seenLens, len(cx.Candles))
	p.seenPrices = append(p.seenPrices, cx.Price)
}

func (p *probe) ShouldLong(cx *strategy.Context) bool {
	return len(cx.Candles)-1 == p.buyOnBar && !cx.Account.Position().IsOpen()
}

func (p *probe) GoLong(cx *strategy.Context) common.BracketOrder {
	return common.BracketOrder{
		Entry: common.Order{Side: common.OrderSideLong, Size: fixed.One, Price: cx.Price},
	}
}

func (p *probe) Terminate(*strategy.Context) { p.terminated++ }

func TestRunner_NoLookahead(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
		makeBar(60_000, 105, 120, 100, 115),
		makeBar(120_000, 115, 125, 110, 120),
	}

	strat := &probe{buyOnBar: 1}
	runner := simulation.NewRunner(zap.NewNop(), nil, testConfiguration())

	account, _, err := runner.Run(strat, candles)
	require.NoError(t, err)

	// The strategy sees only the history up to the current bar, priced at
	// that bar's open.
	assert.Equal(t, []int{1, 2, 3}, strat.seenLens)
	require.Len(t, strat.seenPrices, 3)
	for i, bar := range candles {
		assert.True(t, strat.seenPrices[i].Eq(bar.Open), "bar %d", i)
	}

	assert.Equal(t, 1, strat.terminated)
	require.True(t, account.Position().IsOpen())
	assert.True(t, account.Position().EntryPrice().Eq(fixed.FromInt64(105, 0)))
}

func TestRunner_SeriesLengthsMatch(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
		makeBar(60_000, 105, 120, 100, 115),
	}

	runner := simulation.NewRunner(zap.NewNop(), nil, testConfiguration())
	_, result, err := runner.Run(&probe{buyOnBar: -1}, candles)
	require.NoError(t, err)

	assert.Len(t, result.Prices, len(candles))
	assert.Len(t, result.Collateral, len(candles))
	assert.True(t, result.Prices[1].Eq(fixed.FromInt64(105, 0)))
	assert.True(t, result.Collateral[0].Eq(fixed.FromInt64(1000, 0)))
}

func TestRunner_WarmupOffset(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
		makeBar(60_000, 105, 120, 100, 115),
		makeBar(120_000, 115, 125, 110, 120),
	}

	cfg := testConfiguration()
	cfg.WarmupBars = 2

	strat := &probe{buyOnBar: -1}
	runner := simulation.NewRunner(zap.NewNop(), nil, cfg)
	_, result, err := runner.Run(strat, candles)
	require.NoError(t, err)

	// Warm-up bars never reach the strategy, but the full history does once
	// the loop starts.
	assert.Equal(t, []int{3}, strat.seenLens)
	assert.Len(t, result.Prices, 1)
}

func TestRunner_EmptyCandles(t *testing.T) {
	strat := &probe{buyOnBar: -1}
	runner := simulation.NewRunner(zap.NewNop(), nil, testConfiguration())

	_, result, err := runner.Run(strat, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Prices)
	assert.Equal(t, 0, strat.terminated)
}

func TestRunner_TrackerCountsTrades(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
		makeBar(60_000, 105, 120, 100, 115),
	}

	runner := simulation.NewRunner(zap.NewNop(), nil, testConfiguration())
	_, result, err := runner.Run(&probe{buyOnBar: 0}, candles)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Metrics.TotalTrades())
	require.Len(t, result.Metrics.History(), 1)
	assert.Equal(t, 0, result.Metrics.History()[0].CandleIndex)
}

func TestObjective_ReturnsFinalCollateral(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
		makeBar(60_000, 110, 120, 100, 115),
	}

	objective := simulation.Objective(zap.NewNop(), testConfiguration(), func() strategy.Strategy {
		return &probe{buyOnBar: 0}
	}, candles)

	value, err := objective(nil)
	require.NoError(t, err)

	// LONG 1 @ 100 opened on the first bar, marked at the second bar's open
	// of 110: total collateral is 1000 + 10 unrealized.
	assert.True(t, value.Eq(fixed.FromInt64(1010, 0)), "got %s", value)
}

func TestObjective_IndependentEvaluations(t *testing.T) {
	candles := []common.Bar{
		makeBar(0, 100, 110, 95, 105),
	}

	objective := simulation.Objective(zap.NewNop(), testConfiguration(), func() strategy.Strategy {
		return &probe{buyOnBar: 0}
	}, candles)

	first, err := objective(nil)
	require.NoError(t, err)
	second, err := objective(nil)
	require.NoError(t, err)

	assert.True(t, first.Eq(second))
}
