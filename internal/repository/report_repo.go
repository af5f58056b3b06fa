package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/model"

	"gorm.io/gorm"
)

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// periodExpr renders commissions.calculated_at truncated to the bucket start, per dialect.
// sqlite stores timestamps as text, so truncation works on the date prefix.
var periodExpr = map[string]map[string]string{
	"postgres": {
		GroupByDay:   "TO_CHAR(DATE_TRUNC('day', c.calculated_at), 'YYYY-MM-DD')",
		GroupByWeek:  "TO_CHAR(DATE_TRUNC('week', c.calculated_at), 'YYYY-MM-DD')",
		GroupByMonth: "TO_CHAR(DATE_TRUNC('month', c.calculated_at), 'YYYY-MM-DD')",
	},
	"sqlite": {
		GroupByDay:   "substr(c.calculated_at, 1, 10)",
		GroupByWeek:  "date(substr(c.calculated_at, 1, 10), 'weekday 0', '-6 days')",
		GroupByMonth: "substr(c.calculated_at, 1, 7) || '-01'",
	},
}

type ReportRepository interface {
	CommissionTrend(ctx context.Context, scope Scope, groupBy string, start, end time.Time) ([]model.CommissionTrendRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CommissionTrend(ctx context.Context, scope Scope, groupBy string, start, end time.Time) ([]model.CommissionTrendRow, error) {
	db := GetDB(ctx, r.db)

	exprs, ok := periodExpr[db.Dialector.Name()]
	if !ok {
		return nil, fmt.Errorf("commission trend is not supported on %s", db.Dialector.Name())
	}
	period, ok := exprs[groupBy]
	if !ok {
		return nil, fmt.Errorf("unsupported group_by %q", groupBy)
	}

	args := []interface{}{start, end}
	var filters strings.Builder
	if scope.BusinessUnitID != nil {
		filters.WriteString(" AND c.business_unit_id = ?")
		args = append(args, *scope.BusinessUnitID)
	}
	if scope.SalesRepID != nil {
		filters.WriteString(" AND c.sales_rep_id = ?")
		args = append(args, *scope.SalesRepID)
	}

	query := fmt.Sprintf(`
		SELECT
			%s AS period,
			COUNT(*) AS sales,
			COALESCE(SUM(c.commission_amount), 0) AS commission_amount,
			COALESCE(SUM(c.bonus_amount), 0) AS bonus_amount,
			COALESCE(SUM(c.total_amount), 0) AS total_amount
		FROM commissions c
		WHERE c.calculated_at >= ?
		  AND c.calculated_at <= ?%s
		GROUP BY period
		ORDER BY period
	`, period, filters.String())

	var rows []model.CommissionTrendRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query commission trend: %w", err)
	}

	return rows, nil
}
