package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"gorm.io/gorm"
)

type AuditFilter struct {
	Action   string
	EntityID string
	Page     int
	Limit    int
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log writes entry on the transaction carried by ctx, so audit rows commit or roll back with the change.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.AuditLog{})
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.EntityID != "" {
			q = q.Where("entity_id = ?", filter.EntityID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().Order("created_at desc").Scopes(pagination.New(filter.Page, filter.Limit).Scope()).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
