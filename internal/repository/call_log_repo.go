package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"gorm.io/gorm"
)

type CallLogRepository interface {
	Create(ctx context.Context, entry *model.CallLog) error
	List(ctx context.Context, scope Scope, contactType string, page, limit int) ([]model.CallLog, int64, error)
}

type callLogRepository struct {
	db *gorm.DB
}

func NewCallLogRepository(db *gorm.DB) CallLogRepository {
	return &callLogRepository{db: db}
}

func (r *callLogRepository) Create(ctx context.Context, entry *model.CallLog) error {
	return GetDB(ctx, r.db).Omit("SalesRep").Create(entry).Error
}

func (r *callLogRepository) List(ctx context.Context, scope Scope, contactType string, page, limit int) ([]model.CallLog, int64, error) {
	var logs []model.CallLog
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.CallLog{}).
			Joins("JOIN sales_reps ON sales_reps.id = call_logs.sales_rep_id")
		if scope.BusinessUnitID != nil {
			q = q.Where("sales_reps.business_unit_id = ?", *scope.BusinessUnitID)
		}
		if scope.SalesRepID != nil {
			q = q.Where("call_logs.sales_rep_id = ?", *scope.SalesRepID)
		}
		if contactType != "" {
			q = q.Where("call_logs.contact_type = ?", contactType)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Order("call_logs.logged_at DESC").
		Scopes(pagination.New(page, limit).Scope()).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
