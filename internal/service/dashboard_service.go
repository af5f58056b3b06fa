package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salescrm/internal/cache"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DashboardCachePrefix namespaces every cached dashboard entry. Sale writes drop the whole prefix.
const DashboardCachePrefix = "dashboard:"

const dailyWindow = 7

type DashboardService interface {
	GetOverview(ctx context.Context, actor Actor) (model.DashboardOverview, error)
	GetCommissionSummary(ctx context.Context, actor Actor, start, end time.Time) ([]model.CommissionSummaryRow, error)
	// GetCommissionTrend buckets commissions calculated in [start, end] by day, week or month.
	GetCommissionTrend(ctx context.Context, actor Actor, groupBy string, start, end time.Time) ([]model.CommissionTrendRow, error)
	// ExportCommissions renders commissions calculated in [start, end] as an XLSX workbook.
	ExportCommissions(ctx context.Context, actor Actor, start, end time.Time) ([]byte, error)
}

type dashboardService struct {
	repo    repository.DashboardRepository
	reports repository.ReportRepository
	cache   cache.Cache
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository, reports repository.ReportRepository, c cache.Cache, ttl time.Duration, log *zap.Logger) DashboardService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &dashboardService{repo: repo, reports: reports, cache: c, ttl: ttl, log: log.Named("dashboard"), now: time.Now}
}

func (s *dashboardService) GetOverview(ctx context.Context, actor Actor) (model.DashboardOverview, error) {
	scope, err := actor.Scope()
	if err != nil {
		return model.DashboardOverview{}, err
	}

	key := DashboardCachePrefix + "overview:" + scopeKey(scope)
	if bs, err := s.cache.Get(ctx, key); err == nil {
		var cached model.DashboardOverview
		if json.Unmarshal(bs, &cached) == nil {
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("dashboard cache read failed", zap.Error(err))
	}

	overview, err := s.buildOverview(ctx, scope)
	if err != nil {
		return model.DashboardOverview{}, err
	}

	if bs, err := json.Marshal(overview); err == nil {
		if err := s.cache.Set(ctx, key, bs, s.ttl); err != nil {
			s.log.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

func (s *dashboardService) buildOverview(ctx context.Context, scope repository.Scope) (model.DashboardOverview, error) {
	var out model.DashboardOverview
	var err error

	if out.TotalSales, err = s.repo.CountSales(ctx, scope, ""); err != nil {
		return out, fmt.Errorf("failed to count sales: %w", err)
	}
	if out.ConfirmedSales, err = s.repo.CountSales(ctx, scope, model.SaleStatusConfirmed); err != nil {
		return out, fmt.Errorf("failed to count confirmed sales: %w", err)
	}
	amount, err := s.repo.SumSaleAmount(ctx, scope)
	if err != nil {
		return out, fmt.Errorf("failed to sum sale amounts: %w", err)
	}
	out.TotalAmount = money.RoundHalfUp(amount)

	if out.StatusBreakdown, err = s.repo.StatusBreakdown(ctx, scope); err != nil {
		return out, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(dailyWindow - 1))
	created, err := s.repo.SaleCreationTimes(ctx, scope, since)
	if err != nil {
		return out, fmt.Errorf("failed to load daily sales: %w", err)
	}
	out.DailySales = bucketByDay(created, since, dailyWindow)

	totals, err := s.repo.CompensationTotals(ctx, scope)
	if err != nil {
		return out, err
	}
	out.TotalCommission = money.RoundHalfUp(totals.Commission)
	out.TotalBonus = money.RoundHalfUp(totals.Bonus)
	out.TotalPoints = money.RoundHalfUp(totals.Points)
	out.GeneratedAt = now

	return out, nil
}

func (s *dashboardService) GetCommissionSummary(ctx context.Context, actor Actor, start, end time.Time) ([]model.CommissionSummaryRow, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}

	rows, err := s.repo.CommissionSummary(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CommissionAmount = money.RoundHalfUp(rows[i].CommissionAmount)
		rows[i].BonusAmount = money.RoundHalfUp(rows[i].BonusAmount)
		rows[i].TotalAmount = money.RoundHalfUp(rows[i].TotalAmount)
	}
	return rows, nil
}

func (s *dashboardService) GetCommissionTrend(ctx context.Context, actor Actor, groupBy string, start, end time.Time) ([]model.CommissionTrendRow, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, err
	}
	switch groupBy {
	case "":
		groupBy = repository.GroupByDay
	case repository.GroupByDay, repository.GroupByWeek, repository.GroupByMonth:
	default:
		return nil, fmt.Errorf("%w: group_by must be day, week or month", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}

	rows, err := s.reports.CommissionTrend(ctx, scope, groupBy, start, end)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CommissionAmount = money.RoundHalfUp(rows[i].CommissionAmount)
		rows[i].BonusAmount = money.RoundHalfUp(rows[i].BonusAmount)
		rows[i].TotalAmount = money.RoundHalfUp(rows[i].TotalAmount)
	}
	return rows, nil
}

func (s *dashboardService) ExportCommissions(ctx context.Context, actor Actor, start, end time.Time) ([]byte, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}

	rows, err := s.repo.CommissionExport(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const sheet = "Commissions"
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Sale ID", "Reference", "Sales Rep", "Product", "Sale Amount", "Commission", "Bonus", "Total", "Calculated At"}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		record := []interface{}{
			r.SaleID,
			r.ExternalReference,
			r.SalesRepName,
			r.ProductName,
			money.Format(r.SaleAmount),
			money.Format(r.CommissionAmount),
			money.Format(r.BonusAmount),
			money.Format(r.TotalAmount),
			r.CalculatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func scopeKey(scope repository.Scope) string {
	switch {
	case scope.SalesRepID != nil:
		return "rep:" + scope.SalesRepID.String()
	case scope.BusinessUnitID != nil:
		return "bu:" + scope.BusinessUnitID.String()
	default:
		return "all"
	}
}

// bucketByDay counts times per UTC calendar day for days consecutive days starting at since.
func bucketByDay(times []time.Time, since time.Time, days int) []model.DailyCount {
	counts := make(map[string]int64, days)
	for _, t := range times {
		counts[t.UTC().Format("2006-01-02")]++
	}

	out := make([]model.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, model.DailyCount{Day: day, Count: counts[day]})
	}
	return out
}
