package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/bus"
	"github.com/quantarc/perpsim/pkg/common"
)

// Telemetry counts the events flowing through the handler chain.
type Telemetry struct {
	logger *zap.Logger

	barEventCounter           int64
	orderFilledEventCounter   int64
	orderRejectedEventCounter int64
	positionEventCounter      int64
	collateralEventCounter    int64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		t.barEventCounter++
		handler(ctx, bar)
	}
}

func (t *Telemetry) WithOrderFilled(handler bus.OrderFilledEventHandler) bus.OrderFilledEventHandler {
	return func(ctx context.Context, filled common.OrderFilled) {
		t.orderFilledEventCounter++
		handler(ctx, filled)
	}
}

func (t *Telemetry) WithOrderRejected(handler bus.OrderRejectedEventHandler) bus.OrderRejectedEventHandler {
	return func(ctx context.Context, rejected common.OrderRejected) {
		t.orderRejectedEventCounter++
		handler(ctx, rejected)
	}
}

func (t *Telemetry) WithPosition(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionEventCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithCollateral(handler bus.CollateralEventHandler) bus.CollateralEventHandler {
	return func(ctx context.Context, collateral common.Collateral) {
		t.collateralEventCounter++
		handler(ctx, collateral)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("event statistics",
		zap.Int64("bar_events", t.barEventCounter),
		zap.Int64("order_filled_events", t.orderFilledEventCounter),
		zap.Int64("order_rejected_events", t.orderRejectedEventCounter),
		zap.Int64("position_events", t.positionEventCounter),
		zap.Int64("collateral_events", t.collateralEventCounter))
}
