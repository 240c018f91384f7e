package metrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

type Report struct {
	StartingCollateral fixed.Point
	EndingCollateral   fixed.Point
	RealizedPnL        fixed.Point
	MaxDrawdown        fixed.Point
	MinAccountHealth   fixed.Point

	TotalTrades int
	TotalLongs  int
	TotalShorts int
	Fills       int
}

func (report Report) Print(logger *zap.Logger) {
	logger.Info("performance report",
		zap.String("starting_collateral", report.StartingCollateral.String()),
		zap.String("ending_collateral", report.EndingCollateral.String()),
		zap.String("realized_pnl", report.RealizedPnL.String()),
		zap.String("max_drawdown", fmt.Sprintf("%s%%", report.MaxDrawdown.String())),
		zap.String("min_account_health", report.MinAccountHealth.String()))

	logger.Info("trade statistics",
		zap.Int("total_trades", report.TotalTrades),
		zap.Int("total_longs", report.TotalLongs),
		zap.Int("total_shorts", report.TotalShorts),
		zap.Int("fills", report.Fills))
}
