package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tier is an ordered sales rank (Junior=1, Senior=2, ...). Rank is unique.
type Tier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Rank        int       `gorm:"not null;uniqueIndex" json:"rank"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Tier) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// CompensationPlan is a named commission scheme ("PPA", "Promo") for one product of one business unit.
type CompensationPlan struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID uuid.UUID     `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	BusinessUnit   *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	ProductID      uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:ux_plans_product_name" json:"product_id"`
	Product        *Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Name           string        `gorm:"type:varchar(80);not null;uniqueIndex:ux_plans_product_name" json:"name"`
	Description    string        `gorm:"type:text" json:"description"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (p *CompensationPlan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PlanTierRule is the rate triple for one (plan, tier) pair. At most one rule exists per pair.
type PlanTierRule struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_plan_tier_rules_plan_tier" json:"plan_id"`
	Plan              *CompensationPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	TierID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_plan_tier_rules_plan_tier" json:"tier_id"`
	Tier              *Tier             `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	CommissionPercent decimal.Decimal   `gorm:"type:decimal(5,2);not null" json:"commission_percent"`
	BonusPercent      decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0" json:"bonus_percent"`
	PointsPerDollar   decimal.Decimal   `gorm:"type:decimal(8,2);not null;default:1" json:"points_per_dollar"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (r *PlanTierRule) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
