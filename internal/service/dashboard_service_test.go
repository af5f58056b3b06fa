package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var reportDay = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

// seedReport confirms one 1000.00 sale per fixture and pins every commission to reportDay.
func seedReport(t *testing.T, e *env, fixtures ...testutil.Fixture) {
	t.Helper()
	for _, f := range fixtures {
		_, err := e.sales.CreateSale(context.Background(), admin(), saleRequest(t, f, "1000.00", model.SaleStatusConfirmed))
		require.NoError(t, err)
	}
	require.NoError(t, e.db.Model(&model.Commission{}).Where("1 = 1").Update("calculated_at", reportDay).Error)
}

func TestOverviewIsScopedAndCached(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	other := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()

	seedReport(t, e, f, other)
	_, err := e.sales.CreateSale(ctx, admin(), saleRequest(t, f, "40.00", ""))
	require.NoError(t, err)

	overview, err := e.dashboard.GetOverview(ctx, manager(f.Unit.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.TotalSales)
	assert.Equal(t, int64(1), overview.ConfirmedSales)
	assert.Equal(t, "1040.00", overview.TotalAmount.StringFixed(2))
	assert.Equal(t, "100.00", overview.TotalCommission.StringFixed(2))
	assert.Equal(t, "20.00", overview.TotalBonus.StringFixed(2))
	assert.Equal(t, "100.00", overview.TotalPoints.StringFixed(2))
	assert.Len(t, overview.StatusBreakdown, 2)
	assert.Len(t, overview.DailySales, 7)

	hits := e.cache.hits
	again, err := e.dashboard.GetOverview(ctx, manager(f.Unit.ID))
	require.NoError(t, err)
	assert.Equal(t, hits+1, e.cache.hits)
	assert.Equal(t, overview.TotalSales, again.TotalSales)

	all, err := e.dashboard.GetOverview(ctx, admin())
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalSales)
	assert.Equal(t, "200.00", all.TotalCommission.StringFixed(2))

	// A sale write drops every cached overview.
	_, err = e.sales.CreateSale(ctx, admin(), saleRequest(t, f, "10.00", ""))
	require.NoError(t, err)
	fresh, err := e.dashboard.GetOverview(ctx, manager(f.Unit.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.TotalSales)
}

func TestOverviewRejectsManagerWithoutUnit(t *testing.T) {
	e := newEnv(t)
	_, err := e.dashboard.GetOverview(context.Background(), Actor{Role: model.RoleManager})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCommissionSummary(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	other := testutil.Seed(t, e.db, "BU2", testutil.DefaultRates)
	ctx := context.Background()
	seedReport(t, e, f, other)

	start, end := reportDay.Add(-time.Hour), reportDay.Add(time.Hour)
	rows, err := e.dashboard.GetCommissionSummary(ctx, admin(), start, end)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	mine, err := e.dashboard.GetCommissionSummary(ctx, salesRep(f.Rep), start, end)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.Rep.ID.String(), mine[0].SalesRepID)
	assert.Equal(t, int64(1), mine[0].Sales)
	assert.Equal(t, "120.00", mine[0].TotalAmount.StringFixed(2))

	outside, err := e.dashboard.GetCommissionSummary(ctx, admin(), end, end.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, outside)

	_, err = e.dashboard.GetCommissionSummary(ctx, admin(), end, start)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommissionTrend(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	seedReport(t, e, f)
	ctx := context.Background()
	start, end := reportDay.AddDate(0, 0, -7), reportDay.AddDate(0, 0, 7)

	rows, err := e.dashboard.GetCommissionTrend(ctx, admin(), "", start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-04", rows[0].Period)
	assert.Equal(t, "120.00", rows[0].TotalAmount.StringFixed(2))

	months, err := e.dashboard.GetCommissionTrend(ctx, admin(), "month", start, end)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2024-03-01", months[0].Period)

	_, err = e.dashboard.GetCommissionTrend(ctx, admin(), "quarter", start, end)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportCommissions(t *testing.T) {
	e := newEnv(t)
	f := testutil.Seed(t, e.db, "BU1", testutil.DefaultRates)
	seedReport(t, e, f)

	data, err := e.dashboard.ExportCommissions(context.Background(), admin(), reportDay.Add(-time.Hour), reportDay.Add(time.Hour))
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Commissions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sale ID", rows[0][0])
	assert.Equal(t, f.Rep.DisplayName, rows[1][2])
	assert.Equal(t, f.Product.Name, rows[1][3])
	assert.Equal(t, "1000.00", rows[1][4])
	assert.Equal(t, "100.00", rows[1][5])
	assert.Equal(t, "20.00", rows[1][6])
	assert.Equal(t, "120.00", rows[1][7])
	assert.Equal(t, "2024-03-04T12:00:00Z", rows[1][8])
}
