package paper

import (
	"fmt"

	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

// Collateral tracks the account's cash balance and the solvency figures
// derived from it. Health stays in [0,1]; a value outside that range means
// the margin model itself is broken and Update panics with an
// InvariantViolationError.
type Collateral struct {
	balance           fixed.Point
	totalCollateral   fixed.Point
	freeCollateral    fixed.Point
	maintenanceMargin fixed.Point

	health    fixed.Point
	minHealth fixed.Point
}

func NewCollateral(initial fixed.Point) *Collateral {
	return &Collateral{
		balance:         initial,
		totalCollateral: initial,
		freeCollateral:  initial,
		health:          fixed.One,
		minHealth:       fixed.One,
	}
}

func (c *Collateral) Balance() fixed.Point           { return c.balance }
func (c *Collateral) TotalCollateral() fixed.Point   { return c.totalCollateral }
func (c *Collateral) FreeCollateral() fixed.Point    { return c.freeCollateral }
func (c *Collateral) MaintenanceMargin() fixed.Point { return c.maintenanceMargin }
func (c *Collateral) Health() fixed.Point            { return c.health }
func (c *Collateral) MinHealth() fixed.Point         { return c.minHealth }

// HasSufficientMargin evaluates against the current free collateral. There is
// no reservation of margin beyond this check.
func (c *Collateral) HasSufficientMargin(required fixed.Point) bool {
	return required.Lte(c.freeCollateral)
}

func (c *Collateral) AddRealizedPnL(realized fixed.Point) {
	c.balance = c.balance.Add(realized)
}

func (c *Collateral) Update(openOrdersMaintenanceMargin, positionMaintenanceMargin, positionUnrealizedPnL fixed.Point) {
	c.maintenanceMargin = positionMaintenanceMargin.Add(openOrdersMaintenanceMargin)
	c.totalCollateral = c.balance.Add(positionUnrealizedPnL)
	c.freeCollateral = c.balance.Sub(c.maintenanceMargin)

	c.updateHealth()
}

func (c *Collateral) updateHealth() {
	if c.totalCollateral.Lte(fixed.Zero) || c.maintenanceMargin.Gte(c.totalCollateral) {
		c.health = fixed.Zero
	} else {
		c.health = fixed.One.Sub(c.maintenanceMargin.Div(c.totalCollateral))
	}

	if c.health.IsNeg() || c.health.Gt(fixed.One) {
		panic(&InvariantViolationError{
			Invariant: "account health in [0,1]",
			Detail: fmt.Sprintf("health=%s maintenance_margin=%s total_collateral=%s",
				c.health, c.maintenanceMargin, c.totalCollateral),
		})
	}

	c.minHealth = fixed.Min(c.minHealth, c.health)
}
