package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salescrm/internal/compensation"
	"salescrm/internal/metrics"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"go.uber.org/zap"
)

// CompensationOutcome describes what a confirmation signal produced.
// Created is false when the sale had already been compensated.
type CompensationOutcome struct {
	Created     bool
	Commission  *model.Commission
	RewardPoint *model.RewardPoint
}

// CompensationService turns a sale's first confirmation into one Commission and one RewardPoint.
type CompensationService interface {
	// OnSaleConfirmedTransition must be called once the sale has entered CONFIRMED. It joins the
	// transaction carried by ctx, so a failure rolls back the caller's status write as well.
	// Repeated calls for the same sale create nothing and return Created=false.
	OnSaleConfirmedTransition(ctx context.Context, sale *model.Sale) (CompensationOutcome, error)
}

type compensationService struct {
	salesRepRepo    repository.SalesRepRepository
	commissionRepo  repository.CommissionRepository
	rewardPointRepo repository.RewardPointRepository
	auditRepo       repository.AuditRepository
	resolver        *compensation.Resolver
	txManager       repository.TransactionManager
	log             *zap.Logger
	now             func() time.Time
}

func NewCompensationService(
	salesRepRepo repository.SalesRepRepository,
	ruleRepo repository.PlanTierRuleRepository,
	commissionRepo repository.CommissionRepository,
	rewardPointRepo repository.RewardPointRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	log *zap.Logger,
) CompensationService {
	return &compensationService{
		salesRepRepo:    salesRepRepo,
		commissionRepo:  commissionRepo,
		rewardPointRepo: rewardPointRepo,
		auditRepo:       auditRepo,
		resolver:        compensation.NewResolver(ruleRepo),
		txManager:       txManager,
		log:             log.Named("compensation"),
		now:             time.Now,
	}
}

func (s *compensationService) OnSaleConfirmedTransition(ctx context.Context, sale *model.Sale) (CompensationOutcome, error) {
	var out CompensationOutcome

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rep, err := s.salesRepRepo.FindByID(txCtx, sale.SalesRepID)
		if err != nil {
			return fmt.Errorf("failed to load sales rep: %w", err)
		}

		rule, err := s.resolver.Resolve(txCtx, sale.PlanID, rep.TierID)
		if err != nil {
			return err
		}

		result := compensation.Compute(sale.Amount, rule)
		now := s.now()

		commission := &model.Commission{
			SaleID:           sale.ID,
			SalesRepID:       sale.SalesRepID,
			BusinessUnitID:   sale.BusinessUnitID,
			CommissionAmount: result.Commission,
			BonusAmount:      result.Bonus,
			TotalAmount:      result.Total,
			CalculatedAt:     now,
		}
		commissionCreated, err := s.commissionRepo.CreateIfAbsent(txCtx, commission)
		if err != nil {
			return fmt.Errorf("failed to create commission: %w", err)
		}

		point := &model.RewardPoint{
			SaleID:     sale.ID,
			SalesRepID: sale.SalesRepID,
			Points:     result.Points,
			CreatedAt:  now,
		}
		pointCreated, err := s.rewardPointRepo.CreateIfAbsent(txCtx, point)
		if err != nil {
			return fmt.Errorf("failed to create reward points: %w", err)
		}

		if !commissionCreated && !pointCreated {
			return nil
		}

		out.Created = true
		if commissionCreated {
			out.Commission = commission
		}
		if pointCreated {
			out.RewardPoint = point
		}

		return writeAudit(txCtx, s.auditRepo, nil, model.ActionCreateCompensation, sale.ID.String(), "Sale", map[string]interface{}{
			"sales_rep_id":      sale.SalesRepID,
			"commission_amount": money.Format(result.Commission),
			"bonus_amount":      money.Format(result.Bonus),
			"total_amount":      money.Format(result.Total),
			"points":            money.Format(result.Points),
		})
	})
	if err != nil {
		metrics.CompensationFailures.WithLabelValues(failureReason(err)).Inc()
		s.log.Warn("sale compensation failed",
			zap.String("sale_id", sale.ID.String()),
			zap.String("plan_id", sale.PlanID.String()),
			zap.Error(err))
		return CompensationOutcome{}, err
	}

	if out.Created {
		metrics.CompensationsCreated.Inc()
		s.log.Info("sale compensated",
			zap.String("sale_id", sale.ID.String()),
			zap.String("sales_rep_id", sale.SalesRepID.String()))
	} else {
		metrics.CompensationsSkipped.Inc()
		s.log.Debug("sale already compensated", zap.String("sale_id", sale.ID.String()))
	}

	return out, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, compensation.ErrConfiguration):
		return metrics.ReasonConfiguration
	case errors.Is(err, compensation.ErrRuleNotFound):
		return metrics.ReasonRuleNotFound
	default:
		return metrics.ReasonStorage
	}
}
