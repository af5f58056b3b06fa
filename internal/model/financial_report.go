package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialReport is a stored snapshot of compensation figures for a period.
// A nil BusinessUnitID means the report covers every unit.
type FinancialReport struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID *uuid.UUID      `gorm:"type:uuid;index" json:"business_unit_id"`
	Title          string          `gorm:"type:varchar(120);not null" json:"title"`
	PeriodStart    time.Time       `gorm:"not null" json:"period_start"`
	PeriodEnd      time.Time       `gorm:"not null" json:"period_end"`
	Payload        json.RawMessage `gorm:"type:jsonb;not null" json:"payload"`
	Notes          string          `gorm:"type:text" json:"notes"`
	GeneratedBy    *uuid.UUID      `gorm:"type:uuid" json:"generated_by"`
	GeneratedAt    time.Time       `gorm:"index" json:"generated_at"`
}

func (r *FinancialReport) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	return nil
}

// FinancialReportPayload is what a FinancialReport's Payload decodes to.
type FinancialReportPayload struct {
	Sales            int64                  `json:"sales"`
	CommissionAmount decimal.Decimal        `json:"commission_amount"`
	BonusAmount      decimal.Decimal        `json:"bonus_amount"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	SalesReps        []CommissionSummaryRow `json:"sales_reps"`
}
