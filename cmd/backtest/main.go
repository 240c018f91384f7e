package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	exstrategy "github.com/quantarc/perpsim/examples/strategy"
	"github.com/quantarc/perpsim/pkg/bus"
	"github.com/quantarc/perpsim/pkg/datasource/historical"
	"github.com/quantarc/perpsim/pkg/dbg"
	"github.com/quantarc/perpsim/pkg/middleware"
	"github.com/quantarc/perpsim/pkg/simulation"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
)

func main() {
	logger := dbg.NewLogger(false)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := historical.NewSource(BarDataSource)
	if err := source.Open(); err != nil {
		logger.Fatal("error opening bar data source", zap.Error(err))
	}
	defer source.Close()

	reader := historical.NewBarReader(source, Symbol, BarPeriod, SimulationStart, SimulationEnd)
	candles, err := reader.ReadAll()
	if err != nil {
		logger.Fatal("error reading candles", zap.Error(err))
	}
	logger.Info("candles loaded", zap.Int("count", len(candles)))

	// Create
	monitor := middleware.NewMonitor(logger, MonitorFlags)
	telemetry := middleware.NewTelemetry(logger)
	audit := metrics.NewAudit()

	router := bus.NewRouter(logger, RouterEventCapacity)
	runner := simulation.NewRunner(logger, router, SimulationConfiguration)

	strat := exstrategy.NewTrend()
	strategy.Init(strat)

	executor := simulation.NewExecutor(runner, strat, candles)

	// Initialize
	router.BarHandler = telemetry.WithBar(monitor.WithBar(middleware.NoopBarHdl))
	router.OrderFilledHandler = telemetry.WithOrderFilled(monitor.WithOrderFilled(audit.OnOrderFilled))
	router.OrderRejectedHandler = telemetry.WithOrderRejected(monitor.WithOrderRejected(middleware.NoopOrderRejectedHdl))
	router.PositionHandler = telemetry.WithPosition(monitor.WithPosition(middleware.NoopPositionHdl))
	router.CollateralHandler = telemetry.WithCollateral(monitor.WithCollateral(audit.OnCollateral))

	// Execute the simulation
	go router.ExecLoop(ctx, executor.DoOnce)
	defer router.PrintStatistics()
	defer telemetry.PrintStatistics()

	// Wait for the simulation to complete
	if err := <-router.Done(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, simulation.ErrSimulationDone) {
			logger.Error("error during simulation", zap.Error(err))
			return
		}
	}

	report := audit.GenerateReport(executor.Result().Metrics)
	report.Print(logger)
}
