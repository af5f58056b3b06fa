package compensation

import (
	"context"
	"errors"
	"fmt"

	"salescrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleFinder loads the rule for a (plan, tier) pair. It returns gorm.ErrRecordNotFound when absent.
type RuleFinder interface {
	FindByPlanAndTier(ctx context.Context, planID, tierID uuid.UUID) (*model.PlanTierRule, error)
}

// Resolver turns a sale's plan and its rep's tier into a PlanTierRule.
type Resolver struct {
	rules RuleFinder
}

func NewResolver(rules RuleFinder) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve returns ErrConfiguration when tierID is nil and ErrRuleNotFound when no rule exists.
func (r *Resolver) Resolve(ctx context.Context, planID uuid.UUID, tierID *uuid.UUID) (*model.PlanTierRule, error) {
	if tierID == nil {
		return nil, ErrConfiguration
	}

	rule, err := r.rules.FindByPlanAndTier(ctx, planID, *tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to load plan tier rule: %w", err)
	}
	return rule, nil
}
