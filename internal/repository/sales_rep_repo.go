package repository

import (
	"context"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesRepRepository interface {
	Create(ctx context.Context, rep *model.SalesRep) error
	Update(ctx context.Context, rep *model.SalesRep) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesRep, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SalesRep, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.SalesRep, error)
	List(ctx context.Context, businessUnitID *uuid.UUID) ([]model.SalesRep, error)
}

type salesRepRepository struct {
	db *gorm.DB
}

func NewSalesRepRepository(db *gorm.DB) SalesRepRepository {
	return &salesRepRepository{db: db}
}

func (r *salesRepRepository) Create(ctx context.Context, rep *model.SalesRep) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit", "Tier").Create(rep).Error
}

func (r *salesRepRepository) Update(ctx context.Context, rep *model.SalesRep) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit", "Tier").Save(rep).Error
}

func (r *salesRepRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesRep, error) {
	var rep model.SalesRep
	if err := GetDB(ctx, r.db).Preload("Tier").First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *salesRepRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SalesRep, error) {
	var rep model.SalesRep
	if err := forUpdate(GetDB(ctx, r.db)).First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *salesRepRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.SalesRep, error) {
	var rep model.SalesRep
	if err := GetDB(ctx, r.db).Preload("Tier").First(&rep, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *salesRepRepository) List(ctx context.Context, businessUnitID *uuid.UUID) ([]model.SalesRep, error) {
	var reps []model.SalesRep
	query := GetDB(ctx, r.db).Preload("Tier")
	if businessUnitID != nil {
		query = query.Where("business_unit_id = ?", *businessUnitID)
	}
	err := query.Order("display_name ASC").Find(&reps).Error
	return reps, err
}
