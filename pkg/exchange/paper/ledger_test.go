package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func fill(side common.OrderSide, size, price int) common.Order {
	return common.Order{
		Side:  side,
		Size:  fixed.FromInt(size, 0),
		Price: fixed.FromInt(price, 0),
	}
}

func TestPosition_AdoptsFirstFill(t *testing.T) {
	position := NewPosition("SOLPERP")

	realized := position.AddFilledOrder(fill(common.OrderSideLong, 1, 100))

	assert.True(t, realized.IsZero())
	assert.Equal(t, common.DirectionLong, position.Direction())
	assert.True(t, position.EntryPrice().Eq(fixed.FromInt(100, 0)))
	assert.True(t, position.Size().Eq(fixed.One))
}

func TestPosition_WeightedAverageEntry(t *testing.T) {
	position := NewPosition("SOLPERP")

	position.AddFilledOrder(fill(common.OrderSideLong, 1, 100))
	realized := position.AddFilledOrder(fill(common.OrderSideLong, 3, 120))

	assert.True(t, realized.IsZero())
	assert.True(t, position.Size().Eq(fixed.FromInt(4, 0)))
	// (100*1 + 120*3) / 4 = 115
	assert.True(t, position.EntryPrice().Eq(fixed.FromInt(115, 0)))
}

func TestPosition_PartialReduce(t *testing.T) {
	position := NewPosition("SOLPERP")

	position.AddFilledOrder(fill(common.OrderSideLong, 2, 100))
	realized := position.AddFilledOrder(fill(common.OrderSideShort, 1, 110))

	assert.True(t, realized.Eq(fixed.FromInt(10, 0)))
	assert.Equal(t, common.DirectionLong, position.Direction())
	assert.True(t, position.Size().Eq(fixed.One))
	assert.True(t, position.EntryPrice().Eq(fixed.FromInt(100, 0)))
}

func TestPosition_FullCloseResetsToFlat(t *testing.T) {
	position := NewPosition("SOLPERP")

	position.AddFilledOrder(fill(common.OrderSideShort, 2, 100))
	realized := position.AddFilledOrder(fill(common.OrderSideLong, 2, 90))

	// Short reduced at a lower price realizes (100-90)*2.
	assert.True(t, realized.Eq(fixed.FromInt(20, 0)))
	assert.Equal(t, common.DirectionFlat, position.Direction())
	assert.True(t, position.EntryPrice().IsZero())
	assert.True(t, position.Size().IsZero())
}

func TestPosition_FlipsOnOversizedOpposite(t *testing.T) {
	position := NewPosition("SOLPERP")

	position.AddFilledOrder(fill(common.OrderSideLong, 2, 100))
	realized := position.AddFilledOrder(fill(common.OrderSideShort, 3, 110))

	// Offset size 2 realizes (110-100)*2, the excess flips the position.
	assert.True(t, realized.Eq(fixed.FromInt(20, 0)))
	assert.Equal(t, common.DirectionShort, position.Direction())
	assert.True(t, position.Size().Eq(fixed.One))
	assert.True(t, position.EntryPrice().Eq(fixed.FromInt(110, 0)))
}

func TestPosition_SizeNeverNegative(t *testing.T) {
	sequences := [][]common.Order{
		{fill(common.OrderSideLong, 1, 100), fill(common.OrderSideShort, 5, 90)},
		{fill(common.OrderSideShort, 3, 100), fill(common.OrderSideLong, 1, 95), fill(common.OrderSideLong, 7, 105)},
		{fill(common.OrderSideLong, 2, 100), fill(common.OrderSideShort, 2, 100), fill(common.OrderSideShort, 4, 80)},
	}

	for _, sequence := range sequences {
		position := NewPosition("SOLPERP")
		for _, order := range sequence {
			position.AddFilledOrder(order)
			require.False(t, position.Size().IsNeg(), "size went negative after %s", order)
		}
	}
}

func TestPosition_UnrealizedPnL(t *testing.T) {
	tests := []struct {
		name string
		open common.Order
		mark int
		want int
	}{
		{"long gain", fill(common.OrderSideLong, 2, 100), 110, 20},
		{"long loss", fill(common.OrderSideLong, 2, 100), 95, -10},
		{"short gain", fill(common.OrderSideShort, 3, 100), 90, 30},
		{"short loss", fill(common.OrderSideShort, 3, 100), 105, -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			position := NewPosition("SOLPERP")
			position.AddFilledOrder(tt.open)

			got := position.UnrealizedPnL(fixed.FromInt(tt.mark, 0))
			assert.True(t, got.Eq(fixed.FromInt(tt.want, 0)), "got %s want %d", got, tt.want)
		})
	}

	flat := NewPosition("SOLPERP")
	assert.True(t, flat.UnrealizedPnL(fixed.FromInt(100, 0)).IsZero())
}

func TestPosition_MaintenanceMargin(t *testing.T) {
	position := NewPosition("SOLPERP")
	position.AddFilledOrder(fill(common.OrderSideLong, 2, 100))

	margin := position.MaintenanceMargin(fixed.FromInt(110, 0), fixed.FromFloat64(0.05))
	assert.True(t, margin.Eq(fixed.FromInt64(110, 1)), "got %s want 11", margin)
}

func TestPosition_CloseRealizesAtMark(t *testing.T) {
	position := NewPosition("SOLPERP")
	position.AddFilledOrder(fill(common.OrderSideLong, 2, 100))

	realized := position.Close(fixed.FromInt(130, 0))

	assert.True(t, realized.Eq(fixed.FromInt(60, 0)))
	assert.Equal(t, common.DirectionFlat, position.Direction())
	assert.True(t, position.EntryPrice().IsZero())
	assert.True(t, position.Size().IsZero())
}
