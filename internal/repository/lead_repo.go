package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadFilter struct {
	Source     string
	Unassigned bool
	Page       int
	Limit      int
}

type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	Save(ctx context.Context, lead *model.Lead) error
	List(ctx context.Context, scope Scope, filter LeadFilter) ([]model.Lead, int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit", "SalesRep").Create(lead).Error
}

func (r *leadRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := forUpdate(GetDB(ctx, r.db)).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Save(ctx context.Context, lead *model.Lead) error {
	return GetDB(ctx, r.db).Omit("BusinessUnit", "SalesRep").Save(lead).Error
}

// List returns leads newest first. A SalesRepID scope only matches leads already assigned to that rep.
func (r *leadRepository) List(ctx context.Context, scope Scope, filter LeadFilter) ([]model.Lead, int64, error) {
	var leads []model.Lead
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.Lead{}).Scopes(scope.on("leads"))
		if filter.Source != "" {
			q = q.Where("leads.source = ?", filter.Source)
		}
		if filter.Unassigned {
			q = q.Where("leads.sales_rep_id IS NULL")
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Preload("SalesRep").
		Order("leads.created_at DESC").
		Scopes(pagination.New(filter.Page, filter.Limit).Scope()).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}
