package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BusinessUnit is the tenant scope most records are partitioned by (e.g. "Solar", "Techo").
type BusinessUnit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *BusinessUnit) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// Product is a sellable item owned by exactly one business unit.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessUnitID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_products_unit_name" json:"business_unit_id"`
	BusinessUnit   *BusinessUnit   `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
	Name           string          `gorm:"type:varchar(120);not null;uniqueIndex:ux_products_unit_name" json:"name"`
	SKU            string          `gorm:"type:varchar(60);uniqueIndex;not null" json:"sku"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
