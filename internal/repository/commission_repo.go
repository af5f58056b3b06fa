package repository

import (
	"context"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepository interface {
	// CreateIfAbsent inserts c unless a commission for c.SaleID already exists.
	// created is false when the row was already there.
	CreateIfAbsent(ctx context.Context, c *model.Commission) (created bool, err error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Commission, error)
}

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) CreateIfAbsent(ctx context.Context, c *model.Commission) (bool, error) {
	return insertOnceBySale(GetDB(ctx, r.db).Omit("Sale"), c)
}

func (r *commissionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Commission, error) {
	var c model.Commission
	if err := GetDB(ctx, r.db).Where("sale_id = ?", saleID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// insertOnceBySale runs INSERT ... ON CONFLICT (sale_id) DO NOTHING. Zero affected rows, or a
// unique violation from a dialect that ignores the clause, both mean the row already exists.
func insertOnceBySale(db *gorm.DB, value interface{}) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sale_id"}},
		DoNothing: true,
	}).Create(value)
	if res.Error != nil {
		if IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
