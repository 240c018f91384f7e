package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/perpsim/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router is a bounded single-goroutine event dispatcher. Events posted while
// the queue is full are dropped with an error; handlers run in posting order.
type Router struct {
	logger *zap.Logger

	done   chan error
	events chan event

	BarHandler           BarEventHandler
	OrderFilledHandler   OrderFilledEventHandler
	OrderRejectedHandler OrderRejectedEventHandler
	PositionHandler      PositionEventHandler
	CollateralHandler    CollateralEventHandler

	runTime       time.Duration
	postCount     uint64
	postFails     uint64
	dispatchCount uint64
	dispatchFails uint64
}

func NewRouter(logger *zap.Logger, eventCapacity int) *Router {
	return &Router{
		logger: logger,
		done:   make(chan error),
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount++
		return nil
	default:
		r.postFails++
		return errors.New("event capacity reached")
	}
}

// Exec dispatches queued events until the context is cancelled.
func (r *Router) Exec(ctx context.Context) {
	r.resetStatistics()

	start := time.Now()
	defer func() {
		r.runTime += time.Since(start)
	}()

	for {
		select {
		case <-ctx.Done():
			r.done <- ctx.Err()
			return
		case ev := <-r.events:
			r.dispatchCount++
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails++
				r.logger.Warn("dispatch failed", zap.Error(err), zap.Uint8("event_id", uint8(ev.id)))
			}
		}
	}
}

// ExecLoop drains queued events and invokes doOnceCb whenever the queue is
// empty. The callback's error ends the loop through Done.
func (r *Router) ExecLoop(ctx context.Context, doOnceCb func() error) {
	r.resetStatistics()

	start := time.Now()
	defer func() {
		r.runTime += time.Since(start)
	}()

	for {
		select {
		case <-ctx.Done():
			r.done <- ctx.Err()
			return
		case ev := <-r.events:
			r.dispatchCount++
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails++
				r.logger.Warn("dispatch failed", zap.Error(err), zap.Uint8("event_id", uint8(ev.id)))
			}
		default:
			if err := doOnceCb(); err != nil {
				r.drain(ctx)
				r.done <- err
				return
			}
		}
	}
}

func (r *Router) Done() <-chan error {
	return r.done
}

func (r *Router) PrintStatistics() {
	r.logger.Info("router statistics",
		zap.Duration("run_time", r.runTime),
		zap.Uint64("post_count", r.postCount),
		zap.Uint64("post_fails", r.postFails),
		zap.Uint64("dispatch_count", r.dispatchCount),
		zap.Uint64("dispatch_fails", r.dispatchFails))
}

func (r *Router) resetStatistics() {
	r.runTime = 0
	r.postCount = 0
	r.postFails = 0
	r.dispatchCount = 0
	r.dispatchFails = 0
}

func (r *Router) drain(ctx context.Context) {
	for {
		select {
		case ev := <-r.events:
			r.dispatchCount++
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails++
				r.logger.Warn("dispatch failed", zap.Error(err), zap.Uint8("event_id", uint8(ev.id)))
			}
		default:
			return
		}
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case BarEvent:
		bar, ok := ev.data.(common.Bar)
		if !ok {
			return errors.New("invalid type assertion for bar event")
		}
		if r.BarHandler != nil {
			r.BarHandler(ctx, bar)
		}
	case OrderFilledEvent:
		filled, ok := ev.data.(common.OrderFilled)
		if !ok {
			return errors.New("invalid type assertion for order filled event")
		}
		if r.OrderFilledHandler != nil {
			r.OrderFilledHandler(ctx, filled)
		}
	case OrderRejectedEvent:
		rejected, ok := ev.data.(common.OrderRejected)
		if !ok {
			return errors.New("invalid type assertion for order rejected event")
		}
		if r.OrderRejectedHandler != nil {
			r.OrderRejectedHandler(ctx, rejected)
		}
	case PositionEvent:
		position, ok := ev.data.(common.Position)
		if !ok {
			return errors.New("invalid type assertion for position event")
		}
		if r.PositionHandler != nil {
			r.PositionHandler(ctx, position)
		}
	case CollateralEvent:
		collateral, ok := ev.data.(common.Collateral)
		if !ok {
			return errors.New("invalid type assertion for collateral event")
		}
		if r.CollateralHandler != nil {
			r.CollateralHandler(ctx, collateral)
		}
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
	return nil
}
