package service

import (
	"context"
	"fmt"
	"strings"

	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred          = decimal.NewFromInt(100)
	maxPointsPerUnit = decimal.New(1, 6) // decimal(8,2)
)

// --- DTOs ---

type CreateBusinessUnitRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	BusinessUnitID string           `json:"business_unit_id" binding:"required"`
	Name           string           `json:"name" binding:"required"`
	SKU            string           `json:"sku" binding:"required"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price" swaggertype:"string" example:"1500.00"`
}

type CreateTierRequest struct {
	Name        string `json:"name" binding:"required"`
	Rank        int    `json:"rank" binding:"required,min=1"`
	Description string `json:"description"`
}

type CreateSalesRepRequest struct {
	UserID         string  `json:"user_id" binding:"required"`
	BusinessUnitID string  `json:"business_unit_id" binding:"required"`
	TierID         *string `json:"tier_id"`
	DisplayName    string  `json:"display_name" binding:"required"`
	Phone          string  `json:"phone"`
}

type AssignTierRequest struct {
	TierID *string `json:"tier_id"` // null removes the tier
}

type CreatePlanRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type PlanTierRuleRequest struct {
	PlanID            string           `json:"plan_id"`
	TierID            string           `json:"tier_id"`
	CommissionPercent *decimal.Decimal `json:"commission_percent" swaggertype:"string" example:"10.00"`
	BonusPercent      *decimal.Decimal `json:"bonus_percent" swaggertype:"string" example:"2.00"`
	PointsPerDollar   *decimal.Decimal `json:"points_per_dollar" swaggertype:"string" example:"1.00"`
}

// --- Interface ---

type CatalogService interface {
	CreateBusinessUnit(ctx context.Context, req CreateBusinessUnitRequest) (model.BusinessUnit, error)
	ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error)

	CreateProduct(ctx context.Context, req CreateProductRequest) (model.Product, error)
	ListProducts(ctx context.Context, businessUnitID string) ([]model.Product, error)

	CreateTier(ctx context.Context, req CreateTierRequest) (model.Tier, error)
	ListTiers(ctx context.Context) ([]model.Tier, error)

	CreateSalesRep(ctx context.Context, req CreateSalesRepRequest) (model.SalesRep, error)
	ListSalesReps(ctx context.Context, businessUnitID string) ([]model.SalesRep, error)
	AssignTier(ctx context.Context, actor Actor, salesRepID string, req AssignTierRequest) (model.SalesRep, error)

	CreatePlan(ctx context.Context, req CreatePlanRequest) (model.CompensationPlan, error)
	ListPlans(ctx context.Context, productID string) ([]model.CompensationPlan, error)

	CreatePlanTierRule(ctx context.Context, actor Actor, req PlanTierRuleRequest) (model.PlanTierRule, error)
	UpdatePlanTierRule(ctx context.Context, actor Actor, id string, req PlanTierRuleRequest) (model.PlanTierRule, error)
	ListPlanTierRules(ctx context.Context, planID string) ([]model.PlanTierRule, error)
}

// --- Implementation ---

type catalogService struct {
	catalogRepo  repository.CatalogRepository
	salesRepRepo repository.SalesRepRepository
	ruleRepo     repository.PlanTierRuleRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	salesRepRepo repository.SalesRepRepository,
	ruleRepo repository.PlanTierRuleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		catalogRepo:  catalogRepo,
		salesRepRepo: salesRepRepo,
		ruleRepo:     ruleRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *catalogService) CreateBusinessUnit(ctx context.Context, req CreateBusinessUnitRequest) (model.BusinessUnit, error) {
	name, code := strings.TrimSpace(req.Name), strings.ToUpper(strings.TrimSpace(req.Code))
	if name == "" || code == "" {
		return model.BusinessUnit{}, fmt.Errorf("%w: name and code are required", ErrValidation)
	}

	bu := model.BusinessUnit{Name: name, Code: code, Description: req.Description, IsActive: true}
	if err := s.catalogRepo.CreateBusinessUnit(ctx, &bu); err != nil {
		return model.BusinessUnit{}, writeErr("business unit", err)
	}
	return bu, nil
}

func (s *catalogService) ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error) {
	units, err := s.catalogRepo.ListBusinessUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business units: %w", err)
	}
	return units, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (model.Product, error) {
	buID, err := parseID(req.BusinessUnitID, "business_unit_id")
	if err != nil {
		return model.Product{}, err
	}
	if _, err := s.catalogRepo.FindBusinessUnit(ctx, buID); err != nil {
		return model.Product{}, referenceErr("business unit", err)
	}

	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	if price.IsNegative() || !money.HasAtMostPlaces(price, money.Places) {
		return model.Product{}, fmt.Errorf("%w: price must be a non-negative amount with at most 2 decimal places", ErrValidation)
	}

	product := model.Product{
		BusinessUnitID: buID,
		Name:           strings.TrimSpace(req.Name),
		SKU:            strings.TrimSpace(req.SKU),
		Description:    req.Description,
		Price:          price,
		IsActive:       true,
	}
	if err := s.catalogRepo.CreateProduct(ctx, &product); err != nil {
		return model.Product{}, writeErr("product", err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, businessUnitID string) ([]model.Product, error) {
	buID, err := optionalID(businessUnitID, "business_unit_id")
	if err != nil {
		return nil, err
	}
	products, err := s.catalogRepo.ListProducts(ctx, buID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *catalogService) CreateTier(ctx context.Context, req CreateTierRequest) (model.Tier, error) {
	if req.Rank < 1 {
		return model.Tier{}, fmt.Errorf("%w: rank must be positive", ErrValidation)
	}
	tier := model.Tier{Name: strings.TrimSpace(req.Name), Rank: req.Rank, Description: req.Description}
	if err := s.catalogRepo.CreateTier(ctx, &tier); err != nil {
		return model.Tier{}, writeErr("tier", err)
	}
	return tier, nil
}

func (s *catalogService) ListTiers(ctx context.Context) ([]model.Tier, error) {
	tiers, err := s.catalogRepo.ListTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tiers: %w", err)
	}
	return tiers, nil
}

func (s *catalogService) CreateSalesRep(ctx context.Context, req CreateSalesRepRequest) (model.SalesRep, error) {
	userID, err := parseID(req.UserID, "user_id")
	if err != nil {
		return model.SalesRep{}, err
	}
	buID, err := parseID(req.BusinessUnitID, "business_unit_id")
	if err != nil {
		return model.SalesRep{}, err
	}
	if _, err := s.catalogRepo.FindBusinessUnit(ctx, buID); err != nil {
		return model.SalesRep{}, referenceErr("business unit", err)
	}

	rep := model.SalesRep{
		UserID:         userID,
		BusinessUnitID: buID,
		DisplayName:    strings.TrimSpace(req.DisplayName),
		Phone:          req.Phone,
		IsActive:       true,
	}
	if req.TierID != nil {
		tier, err := s.findTier(ctx, *req.TierID)
		if err != nil {
			return model.SalesRep{}, err
		}
		rep.TierID = &tier.ID
	}

	if err := s.salesRepRepo.Create(ctx, &rep); err != nil {
		return model.SalesRep{}, writeErr("sales rep", err)
	}
	return rep, nil
}

func (s *catalogService) ListSalesReps(ctx context.Context, businessUnitID string) ([]model.SalesRep, error) {
	buID, err := optionalID(businessUnitID, "business_unit_id")
	if err != nil {
		return nil, err
	}
	reps, err := s.salesRepRepo.List(ctx, buID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales reps: %w", err)
	}
	return reps, nil
}

func (s *catalogService) AssignTier(ctx context.Context, actor Actor, salesRepID string, req AssignTierRequest) (model.SalesRep, error) {
	repID, err := parseID(salesRepID, "sales rep ID")
	if err != nil {
		return model.SalesRep{}, err
	}

	var rep *model.SalesRep
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.salesRepRepo.FindByID(txCtx, repID)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: sales rep", ErrNotFound)
			}
			return fmt.Errorf("failed to load sales rep: %w", err)
		}
		rep = found

		previous := ""
		if rep.TierID != nil {
			previous = rep.TierID.String()
		}

		rep.Tier = nil
		rep.TierID = nil
		if req.TierID != nil {
			tier, err := s.findTier(txCtx, *req.TierID)
			if err != nil {
				return err
			}
			rep.TierID = &tier.ID
			rep.Tier = &tier
		}

		if err := s.salesRepRepo.Update(txCtx, rep); err != nil {
			return fmt.Errorf("failed to update sales rep: %w", err)
		}

		next := ""
		if rep.TierID != nil {
			next = rep.TierID.String()
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionAssignTier, rep.ID.String(), rep.DisplayName, map[string]interface{}{
			"previous_tier_id": previous,
			"tier_id":          next,
		})
	})
	if err != nil {
		return model.SalesRep{}, err
	}
	return *rep, nil
}

func (s *catalogService) CreatePlan(ctx context.Context, req CreatePlanRequest) (model.CompensationPlan, error) {
	productID, err := parseID(req.ProductID, "product_id")
	if err != nil {
		return model.CompensationPlan{}, err
	}
	product, err := s.catalogRepo.FindProduct(ctx, productID)
	if err != nil {
		return model.CompensationPlan{}, referenceErr("product", err)
	}

	// A plan always lives in its product's business unit.
	plan := model.CompensationPlan{
		BusinessUnitID: product.BusinessUnitID,
		ProductID:      product.ID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		IsActive:       true,
	}
	if err := s.catalogRepo.CreatePlan(ctx, &plan); err != nil {
		return model.CompensationPlan{}, writeErr("compensation plan", err)
	}
	return plan, nil
}

func (s *catalogService) ListPlans(ctx context.Context, productID string) ([]model.CompensationPlan, error) {
	id, err := optionalID(productID, "product_id")
	if err != nil {
		return nil, err
	}
	plans, err := s.catalogRepo.ListPlans(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}
	return plans, nil
}

func (s *catalogService) CreatePlanTierRule(ctx context.Context, actor Actor, req PlanTierRuleRequest) (model.PlanTierRule, error) {
	planID, err := parseID(req.PlanID, "plan_id")
	if err != nil {
		return model.PlanTierRule{}, err
	}
	if _, err := s.catalogRepo.FindPlan(ctx, planID); err != nil {
		return model.PlanTierRule{}, referenceErr("compensation plan", err)
	}
	tier, err := s.findTier(ctx, req.TierID)
	if err != nil {
		return model.PlanTierRule{}, err
	}
	if req.CommissionPercent == nil {
		return model.PlanTierRule{}, fmt.Errorf("%w: commission_percent is required", ErrValidation)
	}

	rule := model.PlanTierRule{
		PlanID:            planID,
		TierID:            tier.ID,
		CommissionPercent: *req.CommissionPercent,
		BonusPercent:      decimal.Zero,
		PointsPerDollar:   decimal.NewFromInt(1),
	}
	if req.BonusPercent != nil {
		rule.BonusPercent = *req.BonusPercent
	}
	if req.PointsPerDollar != nil {
		rule.PointsPerDollar = *req.PointsPerDollar
	}
	if err := validateRates(rule); err != nil {
		return model.PlanTierRule{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ruleRepo.Create(txCtx, &rule); err != nil {
			return writeErr("plan tier rule", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionCreatePlanTierRule, rule.ID.String(), "PlanTierRule", rateDetails(rule))
	})
	if err != nil {
		return model.PlanTierRule{}, err
	}
	return rule, nil
}

func (s *catalogService) UpdatePlanTierRule(ctx context.Context, actor Actor, id string, req PlanTierRuleRequest) (model.PlanTierRule, error) {
	ruleID, err := parseID(id, "rule ID")
	if err != nil {
		return model.PlanTierRule{}, err
	}

	var rule *model.PlanTierRule
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.ruleRepo.FindByID(txCtx, ruleID)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: plan tier rule", ErrNotFound)
			}
			return fmt.Errorf("failed to load plan tier rule: %w", err)
		}
		rule = found

		if req.CommissionPercent != nil {
			rule.CommissionPercent = *req.CommissionPercent
		}
		if req.BonusPercent != nil {
			rule.BonusPercent = *req.BonusPercent
		}
		if req.PointsPerDollar != nil {
			rule.PointsPerDollar = *req.PointsPerDollar
		}
		if err := validateRates(*rule); err != nil {
			return err
		}

		if err := s.ruleRepo.Update(txCtx, rule); err != nil {
			return fmt.Errorf("failed to update plan tier rule: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionUpdatePlanTierRule, rule.ID.String(), "PlanTierRule", rateDetails(*rule))
	})
	if err != nil {
		return model.PlanTierRule{}, err
	}
	return *rule, nil
}

func (s *catalogService) ListPlanTierRules(ctx context.Context, planID string) ([]model.PlanTierRule, error) {
	id, err := parseID(planID, "plan_id")
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.ListByPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plan tier rules: %w", err)
	}
	return rules, nil
}

// --- Helpers ---

func (s *catalogService) findTier(ctx context.Context, raw string) (model.Tier, error) {
	tierID, err := parseID(raw, "tier_id")
	if err != nil {
		return model.Tier{}, err
	}
	tier, err := s.catalogRepo.FindTier(ctx, tierID)
	if err != nil {
		return model.Tier{}, referenceErr("tier", err)
	}
	return *tier, nil
}

// validateRates enforces percents in [0, 100], a non-negative points multiplier and 2 decimal places.
func validateRates(rule model.PlanTierRule) error {
	for name, pct := range map[string]decimal.Decimal{
		"commission_percent": rule.CommissionPercent,
		"bonus_percent":      rule.BonusPercent,
	} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrValidation, name)
		}
		if !money.HasAtMostPlaces(pct, money.Places) {
			return fmt.Errorf("%w: %s has more than 2 decimal places", ErrValidation, name)
		}
	}
	if rule.PointsPerDollar.IsNegative() || rule.PointsPerDollar.GreaterThanOrEqual(maxPointsPerUnit) {
		return fmt.Errorf("%w: points_per_dollar must be between 0 and 999999.99", ErrValidation)
	}
	if !money.HasAtMostPlaces(rule.PointsPerDollar, money.Places) {
		return fmt.Errorf("%w: points_per_dollar has more than 2 decimal places", ErrValidation)
	}
	return nil
}

func rateDetails(rule model.PlanTierRule) map[string]interface{} {
	return map[string]interface{}{
		"plan_id":            rule.PlanID,
		"tier_id":            rule.TierID,
		"commission_percent": money.Format(rule.CommissionPercent),
		"bonus_percent":      money.Format(rule.BonusPercent),
		"points_per_dollar":  money.Format(rule.PointsPerDollar),
	}
}

func optionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func writeErr(entity string, err error) error {
	if repository.IsDuplicateKeyErr(err) {
		return fmt.Errorf("%w: %s", ErrConflict, entity)
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}
