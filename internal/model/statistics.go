package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardOverview aggregates sales and compensation figures for one caller scope.
type DashboardOverview struct {
	TotalSales      int64           `json:"total_sales"`
	ConfirmedSales  int64           `json:"confirmed_sales"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalPoints     decimal.Decimal `json:"total_points"`
	StatusBreakdown []StatusCount   `json:"status_breakdown"`
	DailySales      []DailyCount    `json:"daily_sales"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// StatusCount is the number of sales currently in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailyCount is the number of sales created on one calendar day.
type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// CommissionSummaryRow sums compensation for one sales rep over a period.
type CommissionSummaryRow struct {
	SalesRepID       string          `json:"sales_rep_id"`
	SalesRepName     string          `json:"sales_rep_name"`
	BusinessUnitID   string          `json:"business_unit_id"`
	Sales            int64           `json:"sales"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	BonusAmount      decimal.Decimal `json:"bonus_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// CommissionExportRow is one line of the commission report export.
type CommissionExportRow struct {
	SaleID            string          `json:"sale_id"`
	ExternalReference string          `json:"external_reference"`
	SalesRepName      string          `json:"sales_rep_name"`
	ProductName       string          `json:"product_name"`
	SaleAmount        decimal.Decimal `json:"sale_amount"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	BonusAmount       decimal.Decimal `json:"bonus_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	CalculatedAt      time.Time       `json:"calculated_at"`
}

// CommissionTrendRow aggregates commissions calculated in one period bucket.
type CommissionTrendRow struct {
	Period           string          `gorm:"column:period" json:"period"` // YYYY-MM-DD, first day of the bucket
	Sales            int64           `gorm:"column:sales" json:"sales"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount" json:"commission_amount"`
	BonusAmount      decimal.Decimal `gorm:"column:bonus_amount" json:"bonus_amount"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
}
