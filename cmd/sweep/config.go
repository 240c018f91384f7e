package main

import (
	"time"

	"github.com/quantarc/perpsim/pkg/simulation"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

var SweepStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
var SweepEnd = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

var SweepConfiguration = simulation.Configuration{
	Symbol:                 Symbol,
	StartBalance:           fixed.FromInt64(10_000, 0),
	InitialMarginRatio:     fixed.FromInt64(1, 1),
	MaintenanceMarginRatio: fixed.FromInt64(5, 2),
}

const (
	Symbol        = "BTCUSDT"
	BarPeriod     = time.Minute
	BarDataSource = "data/candles.duckdb"

	Trials  = 200
	Workers = 8
	Seed    = 1
)
