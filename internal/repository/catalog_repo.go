package repository

import (
	"context"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository stores the administrative reference data sales are built from.
type CatalogRepository interface {
	CreateBusinessUnit(ctx context.Context, bu *model.BusinessUnit) error
	FindBusinessUnit(ctx context.Context, id uuid.UUID) (*model.BusinessUnit, error)
	ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	FindProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, businessUnitID *uuid.UUID) ([]model.Product, error)

	CreateTier(ctx context.Context, t *model.Tier) error
	FindTier(ctx context.Context, id uuid.UUID) (*model.Tier, error)
	ListTiers(ctx context.Context) ([]model.Tier, error)

	CreatePlan(ctx context.Context, p *model.CompensationPlan) error
	FindPlan(ctx context.Context, id uuid.UUID) (*model.CompensationPlan, error)
	ListPlans(ctx context.Context, productID *uuid.UUID) ([]model.CompensationPlan, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateBusinessUnit(ctx context.Context, bu *model.BusinessUnit) error {
	return GetDB(ctx, r.db).Create(bu).Error
}

func (r *catalogRepository) FindBusinessUnit(ctx context.Context, id uuid.UUID) (*model.BusinessUnit, error) {
	var bu model.BusinessUnit
	if err := GetDB(ctx, r.db).First(&bu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bu, nil
}

func (r *catalogRepository) ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error) {
	var units []model.BusinessUnit
	err := GetDB(ctx, r.db).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *catalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit").Create(p).Error
}

func (r *catalogRepository) FindProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := GetDB(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, businessUnitID *uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	query := GetDB(ctx, r.db)
	if businessUnitID != nil {
		query = query.Where("business_unit_id = ?", *businessUnitID)
	}
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *catalogRepository) CreateTier(ctx context.Context, t *model.Tier) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *catalogRepository) FindTier(ctx context.Context, id uuid.UUID) (*model.Tier, error) {
	var t model.Tier
	if err := GetDB(ctx, r.db).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *catalogRepository) ListTiers(ctx context.Context) ([]model.Tier, error) {
	var tiers []model.Tier
	err := GetDB(ctx, r.db).Order("rank ASC").Find(&tiers).Error
	return tiers, err
}

func (r *catalogRepository) CreatePlan(ctx context.Context, p *model.CompensationPlan) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit", "Product").Create(p).Error
}

func (r *catalogRepository) FindPlan(ctx context.Context, id uuid.UUID) (*model.CompensationPlan, error) {
	var p model.CompensationPlan
	if err := GetDB(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListPlans(ctx context.Context, productID *uuid.UUID) ([]model.CompensationPlan, error) {
	var plans []model.CompensationPlan
	query := GetDB(ctx, r.db)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	err := query.Order("name ASC").Find(&plans).Error
	return plans, err
}
