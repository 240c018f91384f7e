package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/bus"
	"github.com/quantarc/perpsim/pkg/common"
)

type MonitorFlags uint8

const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorBars
	MonitorOrdersFilled
	MonitorOrdersRejected
	MonitorPositions
	MonitorCollateral
)

// Monitor logs selected event streams as they pass through the chain.
type Monitor struct {
	logger *zap.Logger
	flags  MonitorFlags
}

func NewMonitor(logger *zap.Logger, flags MonitorFlags) *Monitor {
	return &Monitor{
		logger: logger,
		flags:  flags,
	}
}

func (m *Monitor) enabled(flag MonitorFlags) bool {
	return m.flags&flag != 0 || m.flags&MonitorAll != 0
}

func (m *Monitor) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		if m.enabled(MonitorBars) {
			m.logger.Info("event", zap.Any("bar", bar))
		}
		handler(ctx, bar)
	}
}

func (m *Monitor) WithOrderFilled(handler bus.OrderFilledEventHandler) bus.OrderFilledEventHandler {
	return func(ctx context.Context, filled common.OrderFilled) {
		if m.enabled(MonitorOrdersFilled) {
			m.logger.Info("event", zap.Any("order_filled", filled))
		}
		handler(ctx, filled)
	}
}

func (m *Monitor) WithOrderRejected(handler bus.OrderRejectedEventHandler) bus.OrderRejectedEventHandler {
	return func(ctx context.Context, rejected common.OrderRejected) {
		if m.enabled(MonitorOrdersRejected) {
			m.logger.Info("event", zap.Any("order_rejected", rejected))
		}
		handler(ctx, rejected)
	}
}

func (m *Monitor) WithPosition(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.enabled(MonitorPositions) {
			m.logger.Info("event", zap.Any("position", position))
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithCollateral(handler bus.CollateralEventHandler) bus.CollateralEventHandler {
	return func(ctx context.Context, collateral common.Collateral) {
		if m.enabled(MonitorCollateral) {
			m.logger.Info("event", zap.Any("collateral", collateral))
		}
		handler(ctx, collateral)
	}
}
