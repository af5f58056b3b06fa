package compensation

import (
	"testing"

	"salescrm/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rule(commission, bonus, points string) *model.PlanTierRule {
	return &model.PlanTierRule{
		CommissionPercent: decimal.RequireFromString(commission),
		BonusPercent:      decimal.RequireFromString(bonus),
		PointsPerDollar:   decimal.RequireFromString(points),
	}
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name       string
		amount     string
		rule       *model.PlanTierRule
		commission string
		bonus      string
		total      string
		points     string
	}{
		{"typical", "1000.00", rule("10.00", "2.00", "0.10"), "100.00", "20.00", "120.00", "100.00"},
		{"zero amount", "0.00", rule("10.00", "2.00", "1.00"), "0.00", "0.00", "0.00", "0.00"},
		{"zero rates", "500.00", rule("0.00", "0.00", "0.00"), "0.00", "0.00", "0.00", "0.00"},
		{"half up on commission", "33.35", rule("10.00", "0.00", "1.00"), "3.34", "0.00", "3.34", "33.35"},
		{"components rounded separately", "0.05", rule("10.00", "10.00", "0.10"), "0.01", "0.01", "0.02", "0.01"},
		{"full percent", "250.50", rule("100.00", "0.00", "2.00"), "250.50", "0.00", "250.50", "501.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(decimal.RequireFromString(tc.amount), tc.rule)
			assert.Equal(t, tc.commission, got.Commission.StringFixed(2))
			assert.Equal(t, tc.bonus, got.Bonus.StringFixed(2))
			assert.Equal(t, tc.total, got.Total.StringFixed(2))
			assert.Equal(t, tc.points, got.Points.StringFixed(2))
			assert.True(t, got.Total.Equal(got.Commission.Add(got.Bonus)))
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	r := rule("7.25", "1.13", "0.37")
	amount := decimal.RequireFromString("12345.67")
	first := Compute(amount, r)
	for i := 0; i < 10; i++ {
		again := Compute(amount, r)
		assert.True(t, first.Commission.Equal(again.Commission))
		assert.True(t, first.Bonus.Equal(again.Bonus))
		assert.True(t, first.Points.Equal(again.Points))
	}
}

func TestComputePanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() { Compute(decimal.RequireFromString("10"), nil) })
	assert.Panics(t, func() { Compute(decimal.RequireFromString("-0.01"), rule("10", "0", "1")) })
	assert.Panics(t, func() { Compute(decimal.RequireFromString("10.005"), rule("10", "0", "1")) })
	assert.NotPanics(t, func() { Compute(decimal.RequireFromString("10.50"), rule("10", "0", "1")) })
}
