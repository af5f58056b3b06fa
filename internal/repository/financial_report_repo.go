package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinancialReportRepository interface {
	Create(ctx context.Context, report *model.FinancialReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FinancialReport, error)
	// List filters on business unit only; reports carry no sales rep.
	List(ctx context.Context, businessUnitID *uuid.UUID, page, limit int) ([]model.FinancialReport, int64, error)
}

type financialReportRepository struct {
	db *gorm.DB
}

func NewFinancialReportRepository(db *gorm.DB) FinancialReportRepository {
	return &financialReportRepository{db: db}
}

func (r *financialReportRepository) Create(ctx context.Context, report *model.FinancialReport) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *financialReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FinancialReport, error) {
	var report model.FinancialReport
	if err := GetDB(ctx, r.db).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *financialReportRepository) List(ctx context.Context, businessUnitID *uuid.UUID, page, limit int) ([]model.FinancialReport, int64, error) {
	var reports []model.FinancialReport
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.FinancialReport{})
		if businessUnitID != nil {
			q = q.Where("business_unit_id = ?", *businessUnitID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := base().
		Order("generated_at DESC").
		Scopes(pagination.New(page, limit).Scope()).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
