package simulation

import (
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

type Configuration struct {
	Symbol                 string
	StartBalance           fixed.Point
	InitialMarginRatio     fixed.Point
	MaintenanceMarginRatio fixed.Point
	WarmupBars             int
}
