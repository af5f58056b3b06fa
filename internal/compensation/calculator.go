// Package compensation holds the pure parts of the sale-confirmation pipeline:
// the rate-based calculator, transition detection, reference consistency checks and rate resolution.
package compensation

import (
	"salescrm/internal/model"
	"salescrm/pkg/money"

	"github.com/shopspring/decimal"
)

// Result is the set of figures produced for one confirmed sale.
// Total is the sum of the already-rounded Commission and Bonus.
type Result struct {
	Commission decimal.Decimal
	Bonus      decimal.Decimal
	Total      decimal.Decimal
	Points     decimal.Decimal
}

// Compute applies rule to amount. Each figure is rounded half-up to 2 places on its own.
// A nil rule is a programming error and panics, as is an amount that is negative or finer than money.Places.
func Compute(amount decimal.Decimal, rule *model.PlanTierRule) Result {
	if rule == nil {
		panic("compensation: Compute called without a resolved rule")
	}
	if amount.IsNegative() {
		panic("compensation: Compute called with a negative amount")
	}
	if !money.HasAtMostPlaces(amount, money.Places) {
		panic("compensation: Compute called with an amount finer than money.Places")
	}

	commission := money.Percent(amount, rule.CommissionPercent)
	bonus := money.Percent(amount, rule.BonusPercent)

	return Result{
		Commission: commission,
		Bonus:      bonus,
		Total:      commission.Add(bonus),
		Points:     money.Scale(amount, rule.PointsPerDollar),
	}
}
