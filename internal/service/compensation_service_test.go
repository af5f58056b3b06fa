package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"salescrm/internal/compensation"
	"salescrm/internal/metrics"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedSale(t *testing.T, e *env, f testutil.Fixture, rep model.SalesRep) *model.Sale {
	t.Helper()
	sale := &model.Sale{
		BusinessUnitID: f.Unit.ID,
		SalesRepID:     rep.ID,
		ProductID:      f.Product.ID,
		PlanID:         f.Plan.ID,
		Amount:         testutil.Dec(t, "1000.00"),
		Status:         model.SaleStatusConfirmed,
	}
	require.NoError(t, repository.NewSaleRepository(e.db).Create(context.Background(), sale))
	return sale
}

func TestDuplicateSignalsCompensateOnce(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	sale := confirmedSale(t, e, f, f.Rep)
	ctx := context.Background()

	created := promtest.ToFloat64(metrics.CompensationsCreated)
	skipped := promtest.ToFloat64(metrics.CompensationsSkipped)

	first, err := e.comp.OnSaleConfirmedTransition(ctx, sale)
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.NotNil(t, first.Commission)
	assert.Equal(t, "120.00", first.Commission.TotalAmount.StringFixed(2))
	require.NotNil(t, first.RewardPoint)

	for i := 0; i < 2; i++ {
		again, err := e.comp.OnSaleConfirmedTransition(ctx, sale)
		require.NoError(t, err)
		assert.False(t, again.Created)
		assert.Nil(t, again.Commission)
	}

	assert.Equal(t, int64(1), testutil.Count(t, e.db, &model.Commission{}, "sale_id = ?", sale.ID))
	assert.Equal(t, int64(1), testutil.Count(t, e.db, &model.RewardPoint{}, "sale_id = ?", sale.ID))
	assert.Equal(t, int64(1), auditCount(t, e.db, model.ActionCreateCompensation, sale.ID.String()))
	assert.Equal(t, created+1, promtest.ToFloat64(metrics.CompensationsCreated))
	assert.Equal(t, skipped+2, promtest.ToFloat64(metrics.CompensationsSkipped))
}

func TestConcurrentSignalsCompensateOnce(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	sale := confirmedSale(t, e, f, f.Rep)

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.comp.OnSaleConfirmedTransition(context.Background(), sale)
			if !assert.NoError(t, err) {
				return
			}
			if out.Created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, createdCount)
	assert.Equal(t, int64(1), testutil.Count(t, e.db, &model.Commission{}, ""))
	assert.Equal(t, int64(1), testutil.Count(t, e.db, &model.RewardPoint{}, ""))
}

func TestCompensationJoinsCallerTransaction(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	sale := confirmedSale(t, e, f, f.Rep)
	abort := errors.New("caller aborted")

	err := repository.NewTransactionManager(e.db).RunInTx(context.Background(), func(txCtx context.Context) error {
		out, err := e.comp.OnSaleConfirmedTransition(txCtx, sale)
		require.NoError(t, err)
		assert.True(t, out.Created)
		return abort
	})
	require.ErrorIs(t, err, abort)
	assert.Zero(t, testutil.Count(t, e.db, &model.Commission{}, ""))
	assert.Zero(t, testutil.Count(t, e.db, &model.RewardPoint{}, ""))
}

func TestCompensationFailureReasons(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	untiered := testutil.NewRep(t, e.db, f.Unit.ID, nil, "No Tier")
	ctx := context.Background()

	before := promtest.ToFloat64(metrics.CompensationFailures.WithLabelValues(metrics.ReasonConfiguration))
	_, err := e.comp.OnSaleConfirmedTransition(ctx, confirmedSale(t, e, f, untiered))
	assert.ErrorIs(t, err, compensation.ErrConfiguration)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.CompensationFailures.WithLabelValues(metrics.ReasonConfiguration)))

	require.NoError(t, e.db.Delete(&f.Rule).Error)
	before = promtest.ToFloat64(metrics.CompensationFailures.WithLabelValues(metrics.ReasonRuleNotFound))
	_, err = e.comp.OnSaleConfirmedTransition(ctx, confirmedSale(t, e, f, f.Rep))
	assert.ErrorIs(t, err, compensation.ErrRuleNotFound)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.CompensationFailures.WithLabelValues(metrics.ReasonRuleNotFound)))

	assert.Zero(t, testutil.Count(t, e.db, &model.Commission{}, ""))
}

func TestRuleChangeDoesNotRewriteHistory(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	ctx := context.Background()

	first, err := e.sales.CreateSale(ctx, admin(), saleRequest(t, f, "1000.00", model.SaleStatusConfirmed))
	require.NoError(t, err)

	_, err = e.catalog.UpdatePlanTierRule(ctx, admin(), f.Rule.ID.String(), PlanTierRuleRequest{
		CommissionPercent: amount(t, "20.00"),
		BonusPercent:      amount(t, "0.00"),
		PointsPerDollar:   amount(t, "1.00"),
	})
	require.NoError(t, err)

	second, err := e.sales.CreateSale(ctx, admin(), saleRequest(t, f, "1000.00", model.SaleStatusConfirmed))
	require.NoError(t, err)

	reloaded, err := e.sales.GetSale(ctx, admin(), first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "120.00", reloaded.Commission.TotalAmount)
	assert.Equal(t, "200.00", second.Commission.TotalAmount)
	assert.Equal(t, "1000.00", second.RewardPoint.Points)
}
