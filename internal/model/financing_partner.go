package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinancingPartnerType enum constants
const (
	FinancingPartnerBank        = "BANK"
	FinancingPartnerCooperative = "COOPERATIVE"
	FinancingPartnerOther       = "OTHER"
)

// FinancingPartner is a bank or cooperative that finances customer purchases in one or more business units.
type FinancingPartner struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	PartnerType   string         `gorm:"type:varchar(16);not null;default:'BANK';index" json:"partner_type"` // BANK, COOPERATIVE, OTHER
	BusinessUnits []BusinessUnit `gorm:"many2many:financing_partner_business_units;" json:"business_units"`
	ContactName   string         `gorm:"type:varchar(120)" json:"contact_name"`
	ContactEmail  string         `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone  string         `gorm:"type:varchar(30)" json:"contact_phone"`
	Website       string         `gorm:"type:varchar(255)" json:"website"`
	Services      string         `gorm:"type:text" json:"services"`
	Notes         string         `gorm:"type:text" json:"notes"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	Priority      int            `gorm:"not null;default:100" json:"priority"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *FinancingPartner) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
