package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleStatus enum constants
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusPending   = "PENDING"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusCancelled = "CANCELLED"
)

// SaleStatuses lists every accepted status value.
var SaleStatuses = []string{SaleStatusDraft, SaleStatusPending, SaleStatusConfirmed, SaleStatusCancelled}

// IsValidSaleStatus reports whether status is one of SaleStatuses.
func IsValidSaleStatus(status string) bool {
	for _, s := range SaleStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Sale is the transactional entity driven through the status machine.
// ConfirmedAt is stamped the first time the sale becomes CONFIRMED and never overwritten.
type Sale struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"business_unit_id"`
	BusinessUnit      *BusinessUnit     `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	SalesRepID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"sales_rep_id"`
	SalesRep          *SalesRep         `gorm:"foreignKey:SalesRepID" json:"sales_rep,omitempty"`
	ProductID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Product           *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	PlanID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan              *CompensationPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Amount            decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status            string            `gorm:"type:varchar(16);not null;default:'DRAFT';index" json:"status"` // DRAFT, PENDING, CONFIRMED, CANCELLED
	ExternalReference string            `gorm:"type:varchar(80)" json:"external_reference"`
	ConfirmedAt       *time.Time        `json:"confirmed_at"`
	CreatedAt         time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
