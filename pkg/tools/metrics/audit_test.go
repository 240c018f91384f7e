package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func collateralSnapshot(total, health int64) common.Collateral {
	return common.Collateral{
		TotalCollateral: fixed.FromInt64(total, 0),
		Health:          fixed.FromInt64(health, 2),
	}
}

func TestTracker_CountsBySide(t *testing.T) {
	tracker := metrics.NewTracker(fixed.FromInt64(1000, 0))

	tracker.NewCandle()
	tracker.NewTrade(&common.Order{Side: common.OrderSideLong, Size: fixed.One})
	tracker.NewCandle()
	tracker.NewTrade(&common.Order{Side: common.OrderSideShort, Size: fixed.One})
	tracker.NewTrade(nil)

	assert.Equal(t, 2, tracker.TotalTrades())
	assert.Equal(t, 1, tracker.TotalLongs())
	assert.Equal(t, 1, tracker.TotalShorts())

	history := tracker.History()
	require.Len(t, history, 2)
	assert.Equal(t, 0, history[0].CandleIndex)
	assert.Equal(t, 1, history[1].CandleIndex)
}

func TestAudit_GenerateReport(t *testing.T) {
	audit := metrics.NewAudit()
	ctx := context.Background()

	// Peak 1200, trough 900: 25% drawdown.
	audit.OnCollateral(ctx, collateralSnapshot(1000, 100))
	audit.OnCollateral(ctx, collateralSnapshot(1200, 100))
	audit.OnCollateral(ctx, collateralSnapshot(900, 80))
	audit.OnCollateral(ctx, collateralSnapshot(1100, 95))

	audit.OnOrderFilled(ctx, common.OrderFilled{RealizedPnL: fixed.FromInt64(30, 0)})
	audit.OnOrderFilled(ctx, common.OrderFilled{RealizedPnL: fixed.FromInt64(-10, 0)})

	tracker := metrics.NewTracker(fixed.FromInt64(1000, 0))
	tracker.NewCandle()
	tracker.NewTrade(&common.Order{Side: common.OrderSideLong, Size: fixed.One})

	report := audit.GenerateReport(tracker)

	assert.True(t, report.StartingCollateral.Eq(fixed.FromInt64(1000, 0)))
	assert.True(t, report.EndingCollateral.Eq(fixed.FromInt64(1100, 0)))
	assert.True(t, report.MaxDrawdown.Eq(fixed.FromInt64(25, 0)), "got %s", report.MaxDrawdown)
	assert.True(t, report.MinAccountHealth.Eq(fixed.FromInt64(80, 2)))
	assert.True(t, report.RealizedPnL.Eq(fixed.FromInt64(20, 0)))
	assert.Equal(t, 2, report.Fills)
	assert.Equal(t, 1, report.TotalTrades)
}

func TestAudit_EmptyRun(t *testing.T) {
	audit := metrics.NewAudit()

	report := audit.GenerateReport(metrics.NewTracker(fixed.FromInt64(1000, 0)))

	assert.Zero(t, report.Fills)
	assert.True(t, report.EndingCollateral.IsZero())
	assert.True(t, report.MaxDrawdown.IsZero())
}
