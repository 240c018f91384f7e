package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func TestCollateral_InitialState(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(1000, 0))

	assert.True(t, collateral.Balance().Eq(fixed.FromInt(1000, 0)))
	assert.True(t, collateral.TotalCollateral().Eq(fixed.FromInt(1000, 0)))
	assert.True(t, collateral.FreeCollateral().Eq(fixed.FromInt(1000, 0)))
	assert.True(t, collateral.Health().Eq(fixed.One))
	assert.True(t, collateral.MinHealth().Eq(fixed.One))
}

func TestCollateral_Update(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(1000, 0))

	collateral.Update(fixed.FromInt(5, 0), fixed.FromInt(6, 0), fixed.FromInt(10, 0))

	assert.True(t, collateral.MaintenanceMargin().Eq(fixed.FromInt(11, 0)))
	assert.True(t, collateral.TotalCollateral().Eq(fixed.FromInt(1010, 0)))
	assert.True(t, collateral.FreeCollateral().Eq(fixed.FromInt(989, 0)))

	// health = 1 - 11/1010
	want := fixed.One.Sub(fixed.FromInt(11, 0).Div(fixed.FromInt(1010, 0)))
	assert.True(t, collateral.Health().Eq(want), "got %s want %s", collateral.Health(), want)
}

func TestCollateral_HealthFloorsAtZero(t *testing.T) {
	tests := []struct {
		name                        string
		ordersMargin, positionMargin int
		unrealized                  int
	}{
		{"maintenance margin exceeds collateral", 600, 600, 0},
		{"total collateral wiped out", 0, 10, -1200},
		{"maintenance margin equals collateral", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collateral := NewCollateral(fixed.FromInt(1000, 0))
			collateral.Update(
				fixed.FromInt(tt.ordersMargin, 0),
				fixed.FromInt(tt.positionMargin, 0),
				fixed.FromInt(tt.unrealized, 0))

			assert.True(t, collateral.Health().IsZero())
			assert.True(t, collateral.MinHealth().IsZero())
		})
	}
}

func TestCollateral_HealthStaysInBounds(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(1000, 0))

	marks := []struct{ orders, position, unrealized int }{
		{0, 0, 0},
		{10, 5, 100},
		{200, 300, -400},
		{0, 999, 0},
		{0, 0, -5000},
	}
	for _, m := range marks {
		collateral.Update(fixed.FromInt(m.orders, 0), fixed.FromInt(m.position, 0), fixed.FromInt(m.unrealized, 0))
		assert.False(t, collateral.Health().IsNeg())
		assert.True(t, collateral.Health().Lte(fixed.One))
	}
}

func TestCollateral_TracksMinimumHealth(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(1000, 0))

	collateral.Update(fixed.Zero, fixed.FromInt(500, 0), fixed.Zero)
	lowest := collateral.Health()

	collateral.Update(fixed.Zero, fixed.FromInt(10, 0), fixed.Zero)
	assert.True(t, collateral.Health().Gt(lowest))
	assert.True(t, collateral.MinHealth().Eq(lowest))
}

func TestCollateral_HasSufficientMargin(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(100, 0))

	assert.True(t, collateral.HasSufficientMargin(fixed.FromInt(100, 0)))
	assert.True(t, collateral.HasSufficientMargin(fixed.FromInt(10, 0)))
	assert.False(t, collateral.HasSufficientMargin(fixed.FromInt(101, 0)))
}

func TestCollateral_AddRealizedPnL(t *testing.T) {
	collateral := NewCollateral(fixed.FromInt(100, 0))

	collateral.AddRealizedPnL(fixed.FromInt(25, 0))
	assert.True(t, collateral.Balance().Eq(fixed.FromInt(125, 0)))

	collateral.AddRealizedPnL(fixed.FromInt(-50, 0))
	assert.True(t, collateral.Balance().Eq(fixed.FromInt(75, 0)))
}
