package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesRep is the sales representative profile of an identity-service user.
// TierID is nullable: a rep without a tier cannot have sales confirmed.
type SalesRep struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BusinessUnitID uuid.UUID     `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	BusinessUnit   *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	TierID         *uuid.UUID    `gorm:"type:uuid;index" json:"tier_id"`
	Tier           *Tier         `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	DisplayName    string        `gorm:"type:varchar(150);not null" json:"display_name"`
	Phone          string        `gorm:"type:varchar(13)" json:"phone"`
	HireDate       *time.Time    `gorm:"type:date" json:"hire_date"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (r *SalesRep) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
