package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateSale         = "CREATE_SALE"
	ActionUpdateSale         = "UPDATE_SALE"
	ActionChangeSaleStatus   = "CHANGE_SALE_STATUS"
	ActionCreateCompensation = "CREATE_COMPENSATION"

	ActionCreatePlanTierRule = "CREATE_PLAN_TIER_RULE"
	ActionUpdatePlanTierRule = "UPDATE_PLAN_TIER_RULE"
	ActionAssignTier         = "ASSIGN_TIER"

	ActionRequestRedemption = "REQUEST_REDEMPTION"
	ActionUpdateRedemption  = "UPDATE_REDEMPTION"

	ActionCreateLead = "CREATE_LEAD"
	ActionAssignLead = "ASSIGN_LEAD"

	ActionGenerateFinancialReport = "GENERATE_FINANCIAL_REPORT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nil for automated actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
