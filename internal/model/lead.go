package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a prospective customer captured by a business unit. SalesRepID is nil until someone
// takes the lead.
type Lead struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID uuid.UUID     `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	BusinessUnit   *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	SalesRepID     *uuid.UUID    `gorm:"type:uuid;index" json:"sales_rep_id"`
	SalesRep       *SalesRep     `gorm:"foreignKey:SalesRepID" json:"sales_rep,omitempty"`
	FullName       string        `gorm:"type:varchar(120);not null" json:"full_name"`
	Email          string        `gorm:"type:varchar(254)" json:"email"`
	Phone          string        `gorm:"type:varchar(30)" json:"phone"`
	Source         string        `gorm:"type:varchar(80);index" json:"source"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
