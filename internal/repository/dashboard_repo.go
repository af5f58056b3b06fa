package repository

import (
	"context"
	"fmt"
	"time"

	"salescrm/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompensationTotals sums derived records inside a scope.
type CompensationTotals struct {
	Commission decimal.Decimal
	Bonus      decimal.Decimal
	Points     decimal.Decimal
}

type DashboardRepository interface {
	CountSales(ctx context.Context, scope Scope, status string) (int64, error)
	SumSaleAmount(ctx context.Context, scope Scope) (decimal.Decimal, error)
	StatusBreakdown(ctx context.Context, scope Scope) ([]model.StatusCount, error)
	SaleCreationTimes(ctx context.Context, scope Scope, since time.Time) ([]time.Time, error)
	CompensationTotals(ctx context.Context, scope Scope) (CompensationTotals, error)
	CommissionSummary(ctx context.Context, scope Scope, start, end time.Time) ([]model.CommissionSummaryRow, error)
	CommissionExport(ctx context.Context, scope Scope, start, end time.Time) ([]model.CommissionExportRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountSales(ctx context.Context, scope Scope, status string) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.Sale{}).Scopes(scope.on("sales"))
	if status != "" {
		query = query.Where("sales.status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) SumSaleAmount(ctx context.Context, scope Scope) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Scopes(scope.on("sales")).
		Select("COALESCE(SUM(sales.amount), 0) AS total").
		Scan(&out).Error
	return out.Total, err
}

func (r *dashboardRepository) StatusBreakdown(ctx context.Context, scope Scope) ([]model.StatusCount, error) {
	var rows []model.StatusCount
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Scopes(scope.on("sales")).
		Select("sales.status AS status, COUNT(*) AS count").
		Group("sales.status").
		Order("sales.status ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query status breakdown: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) SaleCreationTimes(ctx context.Context, scope Scope, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Scopes(scope.on("sales")).
		Where("sales.created_at >= ?", since).
		Pluck("sales.created_at", &times).Error
	return times, err
}

func (r *dashboardRepository) CompensationTotals(ctx context.Context, scope Scope) (CompensationTotals, error) {
	var money struct {
		Commission decimal.Decimal
		Bonus      decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Commission{}).
		Scopes(scope.on("commissions")).
		Select("COALESCE(SUM(commissions.commission_amount), 0) AS commission, COALESCE(SUM(commissions.bonus_amount), 0) AS bonus").
		Scan(&money).Error; err != nil {
		return CompensationTotals{}, fmt.Errorf("failed to sum commissions: %w", err)
	}

	var points struct {
		Points decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.RewardPoint{}).
		Joins("JOIN sales ON sales.id = reward_points.sale_id").
		Scopes(scope.on("sales")).
		Select("COALESCE(SUM(reward_points.points), 0) AS points").
		Scan(&points).Error; err != nil {
		return CompensationTotals{}, fmt.Errorf("failed to sum reward points: %w", err)
	}

	return CompensationTotals{
		Commission: money.Commission,
		Bonus:      money.Bonus,
		Points:     points.Points,
	}, nil
}

func (r *dashboardRepository) CommissionSummary(ctx context.Context, scope Scope, start, end time.Time) ([]model.CommissionSummaryRow, error) {
	var rows []model.CommissionSummaryRow
	if err := GetDB(ctx, r.db).Model(&model.Commission{}).
		Select(`commissions.sales_rep_id AS sales_rep_id,
			sales_reps.display_name AS sales_rep_name,
			commissions.business_unit_id AS business_unit_id,
			COUNT(*) AS sales,
			COALESCE(SUM(commissions.commission_amount), 0) AS commission_amount,
			COALESCE(SUM(commissions.bonus_amount), 0) AS bonus_amount,
			COALESCE(SUM(commissions.total_amount), 0) AS total_amount`).
		Joins("JOIN sales_reps ON sales_reps.id = commissions.sales_rep_id").
		Scopes(scope.on("commissions")).
		Where("commissions.calculated_at >= ? AND commissions.calculated_at <= ?", start, end).
		Group("commissions.sales_rep_id, sales_reps.display_name, commissions.business_unit_id").
		Order("total_amount DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query commission summary: %w", err)
	}
	return rows, nil
}

func (r *dashboardRepository) CommissionExport(ctx context.Context, scope Scope, start, end time.Time) ([]model.CommissionExportRow, error) {
	var rows []model.CommissionExportRow
	if err := GetDB(ctx, r.db).Model(&model.Commission{}).
		Select(`commissions.sale_id AS sale_id,
			sales.external_reference AS external_reference,
			sales_reps.display_name AS sales_rep_name,
			products.name AS product_name,
			sales.amount AS sale_amount,
			commissions.commission_amount AS commission_amount,
			commissions.bonus_amount AS bonus_amount,
			commissions.total_amount AS total_amount,
			commissions.calculated_at AS calculated_at`).
		Joins("JOIN sales ON sales.id = commissions.sale_id").
		Joins("JOIN sales_reps ON sales_reps.id = commissions.sales_rep_id").
		Joins("JOIN products ON products.id = sales.product_id").
		Scopes(scope.on("commissions")).
		Where("commissions.calculated_at >= ? AND commissions.calculated_at <= ?", start, end).
		Order("commissions.calculated_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query commission export: %w", err)
	}
	return rows, nil
}
