package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleFilter struct {
	Scope
	Status string
	Page   int
	Limit  int
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Save(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// FindByIDForUpdate reads the persisted row under a row lock; call it inside RunInTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepository) Save(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := GetDB(ctx, r.db).
		Preload("SalesRep").
		Preload("Product").
		Preload("Plan").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := forUpdate(GetDB(ctx, r.db)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.Sale{}).Scopes(filter.Scope.on("sales"))
		if filter.Status != "" {
			q = q.Where("sales.status = ?", filter.Status)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Preload("SalesRep").
		Preload("Product").
		Order("sales.created_at DESC").
		Scopes(pagination.New(filter.Page, filter.Limit).Scope()).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}
