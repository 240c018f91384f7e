package paper

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/bus"
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

const accountComponentName = "exchange.paper.account"

type Config struct {
	Symbol                 string
	StartBalance           fixed.Point
	InitialMarginRatio     fixed.Point
	MaintenanceMarginRatio fixed.Point
}

// Account composes the order book, the position ledger and the collateral
// engine for a single symbol. It is the only component allowed to mutate more
// than one of them in a single operation.
type Account struct {
	logger *zap.Logger
	router *bus.Router
	cfg    Config

	book       *OrderBook
	position   *Position
	collateral *Collateral

	simulationTime time.Time
}

// NewAccount wires a fresh account. The router may be nil; events are then
// not published.
func NewAccount(logger *zap.Logger, router *bus.Router, cfg Config) *Account {
	return &Account{
		logger:     logger,
		router:     router,
		cfg:        cfg,
		book:       NewOrderBook(cfg.Symbol, NewIDGenerator()),
		position:   NewPosition(cfg.Symbol),
		collateral: NewCollateral(cfg.StartBalance),
	}
}

func (a *Account) Book() *OrderBook        { return a.book }
func (a *Account) Position() *Position     { return a.position }
func (a *Account) Collateral() *Collateral { return a.collateral }
func (a *Account) Symbol() string          { return a.cfg.Symbol }

// SetSimulationTime stamps subsequent events. The simulation loop calls it
// with the current bar's start time before driving the account.
func (a *Account) SetSimulationTime(t time.Time) {
	a.simulationTime = t
}

// AddLimitOrder rests an order in the book. An order already marketable
// against the mark (long at or above it, short at or below it) fails with
// ErrImmediateExecution.
func (a *Account) AddLimitOrder(order common.Order, markPrice fixed.Point) (common.Order, error) {
	if (order.Side == common.OrderSideLong && order.Price.Gte(markPrice)) ||
		(order.Side == common.OrderSideShort && order.Price.Lte(markPrice)) {
		return common.Order{}, fmt.Errorf("%w: %s at %s against mark %s",
			ErrImmediateExecution, order.Side, order.Price, markPrice)
	}

	order.Type = common.OrderTypeLimit
	return a.book.Add(order)
}

// AddMarketOrder opens the bracket's entry as an immediate fill against its
// entry price, after resting the optional take-profit leg on the opposite
// side. Insufficient free collateral is a normal outcome and returns
// (nil, nil) with no state mutated. The stop-loss leg is a reserved extension
// point and is not placed.
func (a *Account) AddMarketOrder(bracket common.BracketOrder) (*common.Order, error) {
	entry := bracket.Entry
	required := entry.Price.Mul(entry.Size).Mul(a.cfg.InitialMarginRatio)

	if !a.collateral.HasSufficientMargin(required) {
		a.postOrderRejected(entry, "insufficient margin")
		return nil, nil
	}

	if !bracket.TakeProfit.IsZero() {
		takeProfit := common.Order{
			Side:  entry.Side.Opposite(),
			Size:  entry.Size,
			Price: bracket.TakeProfit,
		}
		if _, err := a.AddLimitOrder(takeProfit, entry.Price); err != nil {
			return nil, fmt.Errorf("take-profit leg: %w", err)
		}
	}

	if !bracket.StopLoss.IsZero() {
		a.logger.Debug("stop-loss leg ignored, stop-market execution not implemented",
			zap.String("stop_loss", bracket.StopLoss.String()))
	}

	if entry.ID == 0 {
		entry.ID = a.book.ids.Next()
	}
	entry.Type = common.OrderTypeMarket
	entry.Status = common.OrderStatusFilled
	entry.Symbol = a.cfg.Symbol

	realized := a.position.AddFilledOrder(entry)
	a.collateral.AddRealizedPnL(realized)
	a.postOrderFilled(entry, realized)

	return &entry, nil
}

// CheckForFilledOrders fills every resting order triggered by the closed
// bar's [low, high] range, in book order, crediting realized PnL as it goes.
func (a *Account) CheckForFilledOrders(low, high fixed.Point) error {
	for _, order := range a.book.Triggered(low, high) {
		realized := a.position.AddFilledOrder(order)
		a.collateral.AddRealizedPnL(realized)
		if err := a.book.Remove(order); err != nil {
			return err
		}

		order.Status = common.OrderStatusFilled
		a.postOrderFilled(order, realized)
	}
	return nil
}

// UpdatePnL marks the account. Maintenance margin stacks the position's own
// requirement with the worst-case same-direction resting exposure, both
// priced at the mark.
func (a *Account) UpdatePnL(markPrice fixed.Point) {
	unrealized := a.position.UnrealizedPnL(markPrice)
	positionMargin := a.position.MaintenanceMargin(markPrice, a.cfg.MaintenanceMarginRatio)
	ordersMargin := a.openOrdersMaintenanceMargin(markPrice)

	a.collateral.Update(ordersMargin, positionMargin, unrealized)

	a.postPosition(unrealized)
	a.postCollateral()
}

// ExitMarket cancels every resting order and closes the position at the mark.
func (a *Account) ExitMarket(markPrice fixed.Point) {
	a.book.Clear()
	realized := a.position.Close(markPrice)
	a.collateral.AddRealizedPnL(realized)
}

// openOrdersMaintenanceMargin prices the larger of the net long or net short
// exposure, where the position's own size joins the same-direction resting
// total. This models worst-case margin usage if the whole side stacks.
func (a *Account) openOrdersMaintenanceMargin(markPrice fixed.Point) fixed.Point {
	netLong := a.book.TotalSize(common.OrderSideLong)
	netShort := a.book.TotalSize(common.OrderSideShort)

	switch a.position.Direction() {
	case common.DirectionLong:
		netLong = netLong.Add(a.position.Size())
	case common.DirectionShort:
		netShort = netShort.Add(a.position.Size())
	}

	return fixed.Max(netLong, netShort).Mul(markPrice).Mul(a.cfg.MaintenanceMarginRatio)
}

func (a *Account) postOrderFilled(order common.Order, realized fixed.Point) {
	if a.router == nil {
		return
	}
	if err := a.router.Post(bus.OrderFilledEvent, common.OrderFilled{
		OriginalOrder: order,
		RealizedPnL:   realized,
		Source:        accountComponentName,
		ExecutionID:   utility.GetExecutionID(),
		TraceID:       utility.CreateTraceID(),
		TimeStamp:     a.simulationTime,
	}); err != nil {
		a.logger.Warn("unable to post order filled event", zap.Error(err))
	}
}

func (a *Account) postOrderRejected(order common.Order, reason string) {
	if a.router == nil {
		return
	}
	if err := a.router.Post(bus.OrderRejectedEvent, common.OrderRejected{
		OriginalOrder: order,
		Reason:        reason,
		Source:        accountComponentName,
		ExecutionID:   utility.GetExecutionID(),
		TraceID:       utility.CreateTraceID(),
		TimeStamp:     a.simulationTime,
	}); err != nil {
		a.logger.Warn("unable to post order rejected event", zap.Error(err))
	}
}

func (a *Account) postPosition(unrealized fixed.Point) {
	if a.router == nil {
		return
	}
	if err := a.router.Post(bus.PositionEvent, common.Position{
		Direction:     a.position.Direction(),
		EntryPrice:    a.position.EntryPrice(),
		Size:          a.position.Size(),
		UnrealizedPnL: unrealized,
		Source:        accountComponentName,
		Symbol:        a.cfg.Symbol,
		ExecutionID:   utility.GetExecutionID(),
		TraceID:       utility.CreateTraceID(),
		TimeStamp:     a.simulationTime,
	}); err != nil {
		a.logger.Warn("unable to post position event", zap.Error(err))
	}
}

func (a *Account) postCollateral() {
	if a.router == nil {
		return
	}
	if err := a.router.Post(bus.CollateralEvent, common.Collateral{
		Balance:           a.collateral.Balance(),
		TotalCollateral:   a.collateral.TotalCollateral(),
		FreeCollateral:    a.collateral.FreeCollateral(),
		MaintenanceMargin: a.collateral.MaintenanceMargin(),
		Health:            a.collateral.Health(),
		Source:            accountComponentName,
		ExecutionID:       utility.GetExecutionID(),
		TraceID:           utility.CreateTraceID(),
		TimeStamp:         a.simulationTime,
	}); err != nil {
		a.logger.Warn("unable to post collateral event", zap.Error(err))
	}
}
