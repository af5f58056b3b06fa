package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RedemptionStatus enum constants
const (
	RedemptionRequested = "REQUESTED"
	RedemptionApproved  = "APPROVED"
	RedemptionRejected  = "REJECTED"
	RedemptionFulfilled = "FULFILLED"
)

// Prize is a catalog item reps can redeem accumulated points for.
type Prize struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_prizes_unit_name" json:"business_unit_id"`
	Name           string          `gorm:"type:varchar(120);not null;uniqueIndex:ux_prizes_unit_name" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	PointsCost     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"points_cost"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Prize) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Redemption debits points from a rep's balance against a prize.
type Redemption struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SalesRepID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_rep_id"`
	SalesRep    *SalesRep       `gorm:"foreignKey:SalesRepID" json:"sales_rep,omitempty"`
	PrizeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"prize_id"`
	Prize       *Prize          `gorm:"foreignKey:PrizeID" json:"prize,omitempty"`
	PointsSpent decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"points_spent"`
	Status      string          `gorm:"type:varchar(16);not null;default:'REQUESTED';index" json:"status"` // REQUESTED, APPROVED, REJECTED, FULFILLED
	RequestedAt time.Time       `gorm:"index" json:"requested_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (r *Redemption) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	if r.RequestedAt.IsZero() {
		r.RequestedAt = time.Now()
	}
	return nil
}
