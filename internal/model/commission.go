package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission is derived from a confirmed Sale and owned by it. The unique index on sale_id is
// the storage-level guarantee that a sale is compensated at most once.
type Commission struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_commissions_sale" json:"sale_id"`
	Sale             *Sale           `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"-"`
	SalesRepID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_rep_id"`
	BusinessUnitID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"commission_amount"`
	BonusAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"bonus_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"` // commission_amount + bonus_amount
	CalculatedAt     time.Time       `gorm:"index" json:"calculated_at"`
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// RewardPoint mirrors Commission for points: one row per confirmed sale.
type RewardPoint struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_reward_points_sale" json:"sale_id"`
	Sale       *Sale           `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"-"`
	SalesRepID uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_rep_id"`
	Points     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"points"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}

func (p *RewardPoint) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
