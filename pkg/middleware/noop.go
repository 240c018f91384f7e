package middleware

import (
	"context"

	"github.com/quantarc/perpsim/pkg/common"
)

var (
	NoopBarHdl           = func(context.Context, common.Bar) {}
	NoopOrderFilledHdl   = func(context.Context, common.OrderFilled) {}
	NoopOrderRejectedHdl = func(context.Context, common.OrderRejected) {}
	NoopPositionHdl      = func(context.Context, common.Position) {}
	NoopCollateralHdl    = func(context.Context, common.Collateral) {}
)
