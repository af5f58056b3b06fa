package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows queries to what a caller may see. Zero value means unrestricted.
type Scope struct {
	BusinessUnitID *uuid.UUID
	SalesRepID     *uuid.UUID
}

// on returns a gorm scope filtering table's business_unit_id / sales_rep_id columns.
func (s Scope) on(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.BusinessUnitID != nil {
			db = db.Where(table+".business_unit_id = ?", *s.BusinessUnitID)
		}
		if s.SalesRepID != nil {
			db = db.Where(table+".sales_rep_id = ?", *s.SalesRepID)
		}
		return db
	}
}
