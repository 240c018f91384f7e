package main

import (
	"time"

	"github.com/quantarc/perpsim/pkg/middleware"
	"github.com/quantarc/perpsim/pkg/simulation"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

var SimulationStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
var SimulationEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

var SimulationConfiguration = simulation.Configuration{
	Symbol:                 Symbol,
	StartBalance:           fixed.FromInt64(10_000, 0),
	InitialMarginRatio:     fixed.FromInt64(1, 1),
	MaintenanceMarginRatio: fixed.FromInt64(5, 2),
	WarmupBars:             20,
}

const (
	RouterEventCapacity = 100
	Symbol              = "BTCUSDT"
	BarPeriod           = time.Minute
	BarDataSource       = "data/btcusdt_1m_2023-2024.bin"
	MonitorFlags        = middleware.MonitorOrdersFilled | middleware.MonitorOrdersRejected
)
