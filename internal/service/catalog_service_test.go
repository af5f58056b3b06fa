package service

import (
	"context"
	"testing"

	"salescrm/internal/model"
	"salescrm/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBusinessUnitNormalizesCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	bu, err := e.catalog.CreateBusinessUnit(ctx, CreateBusinessUnitRequest{Name: " Solar ", Code: "sol"})
	require.NoError(t, err)
	assert.Equal(t, "Solar", bu.Name)
	assert.Equal(t, "SOL", bu.Code)
	assert.True(t, bu.IsActive)

	_, err = e.catalog.CreateBusinessUnit(ctx, CreateBusinessUnitRequest{Name: "Solar Two", Code: "SOL"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.catalog.CreateBusinessUnit(ctx, CreateBusinessUnitRequest{Name: "  ", Code: "X"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePlanInheritsProductBusinessUnit(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)

	plan, err := e.catalog.CreatePlan(context.Background(), CreatePlanRequest{ProductID: f.Product.ID.String(), Name: "Lease"})
	require.NoError(t, err)
	assert.Equal(t, f.Unit.ID, plan.BusinessUnitID)
	assert.Equal(t, f.Product.ID, plan.ProductID)

	plans, err := e.catalog.ListPlans(context.Background(), f.Product.ID.String())
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestCreateTierRejectsNonPositiveRank(t *testing.T) {
	e := newEnv(t)
	_, err := e.catalog.CreateTier(context.Background(), CreateTierRequest{Name: "Junior", Rank: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePlanTierRuleDefaults(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	tier, err := e.catalog.CreateTier(ctx, CreateTierRequest{Name: "Junior", Rank: 9})
	require.NoError(t, err)

	rule, err := e.catalog.CreatePlanTierRule(ctx, admin(), PlanTierRuleRequest{
		PlanID:            f.Plan.ID.String(),
		TierID:            tier.ID.String(),
		CommissionPercent: amount(t, "5.00"),
	})
	require.NoError(t, err)
	assert.True(t, rule.BonusPercent.IsZero())
	assert.True(t, rule.PointsPerDollar.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionCreatePlanTierRule, rule.ID.String()))

	rules, err := e.catalog.ListPlanTierRules(ctx, f.Plan.ID.String())
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestCreatePlanTierRuleRejectsDuplicatePair(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)

	_, err := e.catalog.CreatePlanTierRule(context.Background(), admin(), PlanTierRuleRequest{
		PlanID:            f.Plan.ID.String(),
		TierID:            f.Tier.ID.String(),
		CommissionPercent: amount(t, "7.00"),
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), testutil.Count(t, e.db, &model.PlanTierRule{}, ""))
}

func TestCreatePlanTierRuleValidation(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	tier, err := e.catalog.CreateTier(ctx, CreateTierRequest{Name: "Junior", Rank: 9})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  PlanTierRuleRequest
	}{
		{"missing commission", PlanTierRuleRequest{}},
		{"commission above 100", PlanTierRuleRequest{CommissionPercent: amount(t, "100.01")}},
		{"negative bonus", PlanTierRuleRequest{CommissionPercent: amount(t, "1"), BonusPercent: amount(t, "-1")}},
		{"three places", PlanTierRuleRequest{CommissionPercent: amount(t, "1.125")}},
		{"points too large", PlanTierRuleRequest{CommissionPercent: amount(t, "1"), PointsPerDollar: amount(t, "1000000")}},
		{"negative points", PlanTierRuleRequest{CommissionPercent: amount(t, "1"), PointsPerDollar: amount(t, "-0.01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.PlanID = f.Plan.ID.String()
			tt.req.TierID = tier.ID.String()
			_, err := e.catalog.CreatePlanTierRule(ctx, admin(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err = e.catalog.CreatePlanTierRule(ctx, admin(), PlanTierRuleRequest{
		PlanID:            f.Plan.ID.String(),
		TierID:            "not-a-uuid",
		CommissionPercent: amount(t, "1"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePlanTierRule(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	rule, err := e.catalog.UpdatePlanTierRule(ctx, admin(), f.Rule.ID.String(), PlanTierRuleRequest{BonusPercent: amount(t, "3.50")})
	require.NoError(t, err)
	assert.True(t, rule.BonusPercent.Equal(testutil.Dec(t, "3.50")))
	assert.True(t, rule.CommissionPercent.Equal(testutil.Dec(t, "10.00")))
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionUpdatePlanTierRule, rule.ID.String()))

	_, err = e.catalog.UpdatePlanTierRule(ctx, admin(), f.Rule.ID.String(), PlanTierRuleRequest{CommissionPercent: amount(t, "101")})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionUpdatePlanTierRule, rule.ID.String()))

	_, err = e.catalog.UpdatePlanTierRule(ctx, admin(), uuid.NewString(), PlanTierRuleRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignTier(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	rep, err := e.catalog.AssignTier(ctx, admin(), f.Rep.ID.String(), AssignTierRequest{})
	require.NoError(t, err)
	assert.Nil(t, rep.TierID)

	var stored model.SalesRep
	require.NoError(t, e.db.First(&stored, "id = ?", f.Rep.ID).Error)
	assert.Nil(t, stored.TierID)

	tierID := f.Tier.ID.String()
	rep, err = e.catalog.AssignTier(ctx, admin(), f.Rep.ID.String(), AssignTierRequest{TierID: &tierID})
	require.NoError(t, err)
	require.NotNil(t, rep.TierID)
	assert.Equal(t, f.Tier.ID, *rep.TierID)
	assert.Equal(t, int64(2), auditCount(t, e.db, model.ActionAssignTier, f.Rep.ID.String()))

	missing := f.Plan.ID.String()
	_, err = e.catalog.AssignTier(ctx, admin(), f.Rep.ID.String(), AssignTierRequest{TierID: &missing})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSalesRepChecksReferences(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	rep, err := e.catalog.CreateSalesRep(ctx, CreateSalesRepRequest{
		UserID:         f.Rep.ID.String(),
		BusinessUnitID: f.Unit.ID.String(),
		DisplayName:    "New Rep",
	})
	require.NoError(t, err)
	assert.Nil(t, rep.TierID)

	_, err = e.catalog.CreateSalesRep(ctx, CreateSalesRepRequest{
		UserID:         f.Rep.ID.String(),
		BusinessUnitID: f.Product.ID.String(),
		DisplayName:    "Orphan",
	})
	assert.ErrorIs(t, err, ErrValidation)

	reps, err := e.catalog.ListSalesReps(ctx, f.Unit.ID.String())
	require.NoError(t, err)
	assert.Len(t, reps, 2)
}
