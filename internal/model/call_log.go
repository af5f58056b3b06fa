package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactType enum constants
const (
	ContactTypeCall  = "CALL"
	ContactTypeEmail = "EMAIL"
)

// CallLog records a contact a sales rep made, optionally tied to one of their sales.
type CallLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SalesRepID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"sales_rep_id"`
	SalesRep       *SalesRep  `gorm:"foreignKey:SalesRepID" json:"sales_rep,omitempty"`
	SaleID         *uuid.UUID `gorm:"type:uuid;index" json:"sale_id"`
	ContactType    string     `gorm:"type:varchar(12);not null" json:"contact_type"` // CALL, EMAIL
	Subject        string     `gorm:"type:varchar(120);not null" json:"subject"`
	Notes          string     `gorm:"type:text" json:"notes"`
	NextActionDate *time.Time `gorm:"type:date" json:"next_action_date"`
	LoggedAt       time.Time  `gorm:"index" json:"logged_at"`
}

func (c *CallLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	if c.LoggedAt.IsZero() {
		c.LoggedAt = time.Now()
	}
	return nil
}
