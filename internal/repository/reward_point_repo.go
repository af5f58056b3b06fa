package repository

import (
	"context"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RewardPointRepository interface {
	CreateIfAbsent(ctx context.Context, p *model.RewardPoint) (created bool, err error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.RewardPoint, error)
	SumBySalesRep(ctx context.Context, salesRepID uuid.UUID) (decimal.Decimal, error)
}

type rewardPointRepository struct {
	db *gorm.DB
}

func NewRewardPointRepository(db *gorm.DB) RewardPointRepository {
	return &rewardPointRepository{db: db}
}

func (r *rewardPointRepository) CreateIfAbsent(ctx context.Context, p *model.RewardPoint) (bool, error) {
	return insertOnceBySale(GetDB(ctx, r.db).Omit("Sale"), p)
}

func (r *rewardPointRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.RewardPoint, error) {
	var p model.RewardPoint
	if err := GetDB(ctx, r.db).Where("sale_id = ?", saleID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *rewardPointRepository) SumBySalesRep(ctx context.Context, salesRepID uuid.UUID) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.RewardPoint{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("sales_rep_id = ?", salesRepID).
		Scan(&out).Error
	return out.Total, err
}
