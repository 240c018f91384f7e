package common

import (
	"time"

	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Collateral is the account solvency snapshot published after every margin
// mark. Health is normalized to [0,1], 1 meaning no margin pressure.
type Collateral struct {
	Balance           fixed.Point `json:"balance"`
	TotalCollateral   fixed.Point `json:"total_collateral"`
	FreeCollateral    fixed.Point `json:"free_collateral"`
	MaintenanceMargin fixed.Point `json:"maintenance_margin"`
	Health            fixed.Point `json:"health"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

type OrderFilled struct {
	OriginalOrder Order       `json:"original_order"`
	RealizedPnL   fixed.Point `json:"realized_pnl"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

type OrderRejected struct {
	OriginalOrder Order  `json:"original_order"`
	Reason        string `json:"reason,omitempty"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
