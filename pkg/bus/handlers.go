package bus

import (
	"context"

	"github.com/quantarc/perpsim/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type BarEventHandler EventHandler[common.Bar]
type OrderFilledEventHandler EventHandler[common.OrderFilled]
type OrderRejectedEventHandler EventHandler[common.OrderRejected]
type PositionEventHandler EventHandler[common.Position]
type CollateralEventHandler EventHandler[common.Collateral]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}
