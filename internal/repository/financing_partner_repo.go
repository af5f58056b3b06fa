package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinancingPartnerFilter struct {
	PartnerType    string
	BusinessUnitID *uuid.UUID
	Search         string
	ActiveOnly     bool
	Page           int
	Limit          int
}

type FinancingPartnerRepository interface {
	Create(ctx context.Context, partner *model.FinancingPartner) error
	Update(ctx context.Context, partner *model.FinancingPartner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FinancingPartner, error)
	List(ctx context.Context, filter FinancingPartnerFilter) ([]model.FinancingPartner, int64, error)
	ReplaceBusinessUnits(ctx context.Context, partner *model.FinancingPartner, units []model.BusinessUnit) error
}

type financingPartnerRepository struct {
	db *gorm.DB
}

func NewFinancingPartnerRepository(db *gorm.DB) FinancingPartnerRepository {
	return &financingPartnerRepository{db: db}
}

func (r *financingPartnerRepository) Create(ctx context.Context, partner *model.FinancingPartner) error {
	return GetDB(ctx, r.db).Omit("BusinessUnits.*").Create(partner).Error
}

func (r *financingPartnerRepository) Update(ctx context.Context, partner *model.FinancingPartner) error {
	return GetDB(ctx, r.db).Omit("BusinessUnits").Save(partner).Error
}

func (r *financingPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FinancingPartner{}).Error
}

func (r *financingPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FinancingPartner, error) {
	var partner model.FinancingPartner
	if err := GetDB(ctx, r.db).Preload("BusinessUnits").First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *financingPartnerRepository) List(ctx context.Context, filter FinancingPartnerFilter) ([]model.FinancingPartner, int64, error) {
	var partners []model.FinancingPartner
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.FinancingPartner{})
		if filter.PartnerType != "" {
			q = q.Where("financing_partners.partner_type = ?", filter.PartnerType)
		}
		if filter.ActiveOnly {
			q = q.Where("financing_partners.is_active = ?", true)
		}
		if filter.BusinessUnitID != nil {
			q = q.Where("financing_partners.id IN (?)",
				GetDB(ctx, r.db).Table("financing_partner_business_units").
					Select("financing_partner_id").
					Where("business_unit_id = ?", *filter.BusinessUnitID))
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("LOWER(financing_partners.name) LIKE LOWER(?) OR LOWER(financing_partners.services) LIKE LOWER(?)", like, like)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Preload("BusinessUnits").
		Order("financing_partners.priority ASC, financing_partners.name ASC").
		Scopes(pagination.New(filter.Page, filter.Limit).Scope()).
		Find(&partners).Error; err != nil {
		return nil, 0, err
	}

	return partners, total, nil
}

func (r *financingPartnerRepository) ReplaceBusinessUnits(ctx context.Context, partner *model.FinancingPartner, units []model.BusinessUnit) error {
	return GetDB(ctx, r.db).Model(partner).Association("BusinessUnits").Replace(units)
}
