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
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/datasource/stream"
	"github.com/quantarc/perpsim/pkg/dbg"
	"github.com/quantarc/perpsim/pkg/exchange/paper"
	"github.com/quantarc/perpsim/pkg/middleware"
	"github.com/quantarc/perpsim/pkg/strategy"
	"github.com/quantarc/perpsim/pkg/tools/metrics"
)

var errStreamClosed = errors.New("stream closed")

// trader replays the backtest bar discipline against a live feed: decisions
// run on each closed bar, resting orders match against the next bar's range.
type trader struct {
	account *paper.Account
	strat   strategy.Strategy
	tracker *metrics.Tracker
	candles []common.Bar
}

func (t *trader) onBar(bar common.Bar) error {
	t.account.SetSimulationTime(bar.StartTime())
	t.tracker.NewCandle()

	if err := t.account.CheckForFilledOrders(bar.Low, bar.High); err != nil {
		return err
	}

	t.account.UpdatePnL(bar.Close)
	t.candles = append(t.candles, bar)

	cx := &strategy.Context{
		Account: t.account,
		Candles: t.candles,
		Price:   bar.Close,
		Metrics: t.tracker,
	}
	return strategy.Step(t.strat, cx)
}

func main() {
	logger := dbg.NewLogger(true)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create
	monitor := middleware.NewMonitor(logger, MonitorFlags)
	telemetry := middleware.NewTelemetry(logger)
	audit := metrics.NewAudit()

	router := bus.NewRouter(logger, RouterEventCapacity)

	t := &trader{
		account: paper.NewAccount(logger, router, AccountConfiguration),
		strat:   exstrategy.NewTrend(),
		tracker: metrics.NewTracker(AccountConfiguration.StartBalance),
	}
	strategy.Init(t.strat)

	client := stream.NewClient(logger, StreamUrl, Symbol)
	if err := client.Connect(ctx); err != nil {
		logger.Fatal("error connecting to stream", zap.Error(err))
	}
	defer client.Close()

	// Initialize
	router.BarHandler = telemetry.WithBar(monitor.WithBar(middleware.NoopBarHdl))
	router.OrderFilledHandler = telemetry.WithOrderFilled(monitor.WithOrderFilled(audit.OnOrderFilled))
	router.OrderRejectedHandler = telemetry.WithOrderRejected(monitor.WithOrderRejected(middleware.NoopOrderRejectedHdl))
	router.PositionHandler = telemetry.WithPosition(monitor.WithPosition(middleware.NoopPositionHdl))
	router.CollateralHandler = telemetry.WithCollateral(monitor.WithCollateral(audit.OnCollateral))

	// Execute
	go router.ExecLoop(ctx, func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case bar, ok := <-client.Bars():
			if !ok {
				return errStreamClosed
			}
			if err := router.Post(bus.BarEvent, bar); err != nil {
				logger.Warn("unable to post bar event", zap.Error(err))
			}
			return t.onBar(bar)
		}
	})
	defer router.PrintStatistics()
	defer telemetry.PrintStatistics()

	// Wait for shutdown
	if err := <-router.Done(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errStreamClosed) {
			logger.Error("error during paper session", zap.Error(err))
			return
		}
	}

	report := audit.GenerateReport(t.tracker)
	report.Print(logger)
}
