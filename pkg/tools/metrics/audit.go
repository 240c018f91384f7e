package metrics

import (
	"context"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Audit observes the event bus during a run and aggregates what the report
// needs: collateral snapshots and fills. Register its handlers on the router
// before the run starts.
type Audit struct {
	collaterals []common.Collateral
	fills       []common.OrderFilled
}

func NewAudit() *Audit {
	return &Audit{}
}

func (a *Audit) OnCollateral(_ context.Context, collateral common.Collateral) {
	a.collaterals = append(a.collaterals, collateral)
}

func (a *Audit) OnOrderFilled(_ context.Context, filled common.OrderFilled) {
	a.fills = append(a.fills, filled)
}

func (a *Audit) GenerateReport(tracker *Tracker) Report {
	report := Report{
		Fills: len(a.fills),
	}

	if tracker != nil {
		report.StartingCollateral = tracker.StartingBalance()
		report.TotalTrades = tracker.TotalTrades()
		report.TotalLongs = tracker.TotalLongs()
		report.TotalShorts = tracker.TotalShorts()
	}

	if len(a.collaterals) == 0 {
		return report
	}

	report.EndingCollateral = a.collaterals[len(a.collaterals)-1].TotalCollateral
	report.MinAccountHealth = fixed.One

	maxCollateral := a.collaterals[0].TotalCollateral
	for _, snapshot := range a.collaterals {
		if snapshot.TotalCollateral.Gt(maxCollateral) {
			maxCollateral = snapshot.TotalCollateral
		}
		if maxCollateral.Gt(fixed.Zero) {
			drawdown := maxCollateral.Sub(snapshot.TotalCollateral).Div(maxCollateral)
			if drawdown.Gt(report.MaxDrawdown) {
				report.MaxDrawdown = drawdown
			}
		}
		report.MinAccountHealth = fixed.Min(report.MinAccountHealth, snapshot.Health)
	}
	report.MaxDrawdown = report.MaxDrawdown.MulInt64(100).Rescale(2)

	var realized fixed.Point
	for _, filled := range a.fills {
		realized = realized.Add(filled.RealizedPnL)
	}
	report.RealizedPnL = realized

	return report
}
