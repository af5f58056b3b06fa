package repository

import (
	"context"

	"salescrm/internal/model"
	"salescrm/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PrizeRepository interface {
	Create(ctx context.Context, prize *model.Prize) error
	Update(ctx context.Context, prize *model.Prize) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prize, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Prize, error)
	List(ctx context.Context, businessUnitID *uuid.UUID, activeOnly bool) ([]model.Prize, error)
}

type prizeRepository struct {
	db *gorm.DB
}

func NewPrizeRepository(db *gorm.DB) PrizeRepository {
	return &prizeRepository{db: db}
}

func (r *prizeRepository) Create(ctx context.Context, prize *model.Prize) error {
	return GetDB(ctx, r.db).Create(prize).Error
}

func (r *prizeRepository) Update(ctx context.Context, prize *model.Prize) error {
	return GetDB(ctx, r.db).Save(prize).Error
}

func (r *prizeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prize, error) {
	var prize model.Prize
	if err := GetDB(ctx, r.db).First(&prize, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prize, nil
}

func (r *prizeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Prize, error) {
	var prize model.Prize
	if err := forUpdate(GetDB(ctx, r.db)).First(&prize, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prize, nil
}

func (r *prizeRepository) List(ctx context.Context, businessUnitID *uuid.UUID, activeOnly bool) ([]model.Prize, error) {
	var prizes []model.Prize
	query := GetDB(ctx, r.db)
	if businessUnitID != nil {
		query = query.Where("business_unit_id = ?", *businessUnitID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("points_cost ASC").Find(&prizes).Error
	return prizes, err
}

type RedemptionRepository interface {
	Create(ctx context.Context, redemption *model.Redemption) error
	Update(ctx context.Context, redemption *model.Redemption) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Redemption, error)
	List(ctx context.Context, scope Scope, status string, page, limit int) ([]model.Redemption, int64, error)
	// SumSpentBySalesRep totals points_spent over redemptions that still hold points (not REJECTED).
	SumSpentBySalesRep(ctx context.Context, salesRepID uuid.UUID) (decimal.Decimal, error)
}

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *model.Redemption) error {
	return GetDB(ctx, r.db).Omit("SalesRep", "Prize").Create(redemption).Error
}

func (r *redemptionRepository) Update(ctx context.Context, redemption *model.Redemption) error {
	return GetDB(ctx, r.db).Omit("SalesRep", "Prize").Save(redemption).Error
}

func (r *redemptionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Redemption, error) {
	var redemption model.Redemption
	if err := forUpdate(GetDB(ctx, r.db)).First(&redemption, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *redemptionRepository) List(ctx context.Context, scope Scope, status string, page, limit int) ([]model.Redemption, int64, error) {
	var redemptions []model.Redemption
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.Redemption{}).
			Joins("JOIN sales_reps ON sales_reps.id = redemptions.sales_rep_id")
		if scope.BusinessUnitID != nil {
			q = q.Where("sales_reps.business_unit_id = ?", *scope.BusinessUnitID)
		}
		if scope.SalesRepID != nil {
			q = q.Where("redemptions.sales_rep_id = ?", *scope.SalesRepID)
		}
		if status != "" {
			q = q.Where("redemptions.status = ?", status)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Preload("Prize").
		Order("redemptions.requested_at DESC").
		Scopes(pagination.New(page, limit).Scope()).
		Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}

	return redemptions, total, nil
}

func (r *redemptionRepository) SumSpentBySalesRep(ctx context.Context, salesRepID uuid.UUID) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.Redemption{}).
		Select("COALESCE(SUM(points_spent), 0) AS total").
		Where("sales_rep_id = ? AND status <> ?", salesRepID, model.RedemptionRejected).
		Scan(&out).Error
	return out.Total, err
}
