package repository

import (
	"context"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanTierRuleRepository interface {
	Create(ctx context.Context, rule *model.PlanTierRule) error
	Update(ctx context.Context, rule *model.PlanTierRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PlanTierRule, error)
	FindByPlanAndTier(ctx context.Context, planID, tierID uuid.UUID) (*model.PlanTierRule, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.PlanTierRule, error)
}

type planTierRuleRepository struct {
	db *gorm.DB
}

func NewPlanTierRuleRepository(db *gorm.DB) PlanTierRuleRepository {
	return &planTierRuleRepository{db: db}
}

func (r *planTierRuleRepository) Create(ctx context.Context, rule *model.PlanTierRule) error {
	return GetDB(ctx, r.db).Omit("Plan", "Tier").Create(rule).Error
}

func (r *planTierRuleRepository) Update(ctx context.Context, rule *model.PlanTierRule) error {
	return GetDB(ctx, r.db).Omit("Plan", "Tier").Save(rule).Error
}

func (r *planTierRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PlanTierRule, error) {
	var rule model.PlanTierRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *planTierRuleRepository) FindByPlanAndTier(ctx context.Context, planID, tierID uuid.UUID) (*model.PlanTierRule, error) {
	var rule model.PlanTierRule
	err := GetDB(ctx, r.db).
		Where("plan_id = ? AND tier_id = ?", planID, tierID).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *planTierRuleRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.PlanTierRule, error) {
	var rules []model.PlanTierRule
	err := GetDB(ctx, r.db).
		Preload("Tier").
		Joins("JOIN tiers ON tiers.id = plan_tier_rules.tier_id").
		Where("plan_tier_rules.plan_id = ?", planID).
		Order("tiers.rank ASC").
		Find(&rules).Error
	return rules, err
}
