package main

import (
	"github.com/quantarc/perpsim/pkg/exchange/paper"
	"github.com/quantarc/perpsim/pkg/middleware"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

var AccountConfiguration = paper.Config{
	Symbol:                 Symbol,
	StartBalance:           fixed.FromInt64(10_000, 0),
	InitialMarginRatio:     fixed.FromInt64(1, 1),
	MaintenanceMarginRatio: fixed.FromInt64(5, 2),
}

const (
	RouterEventCapacity = 1000
	Symbol              = "BTCUSDT"
	StreamUrl           = "wss://stream.example.com/klines"
	MonitorFlags        = middleware.MonitorOrdersFilled | middleware.MonitorOrdersRejected | middleware.MonitorCollateral
)
