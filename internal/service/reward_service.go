package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientPoints = fmt.Errorf("%w: insufficient points balance", ErrValidation)
	ErrOutOfStock         = fmt.Errorf("%w: prize is out of stock", ErrValidation)
)

// redemptionTransitions lists the allowed next statuses per current status.
var redemptionTransitions = map[string][]string{
	model.RedemptionRequested: {model.RedemptionApproved, model.RedemptionRejected},
	model.RedemptionApproved:  {model.RedemptionFulfilled},
}

// --- DTOs ---

type PointsSummary struct {
	SalesRepID  uuid.UUID `json:"sales_rep_id"`
	TotalPoints string    `json:"total_points"`
	PointsSpent string    `json:"points_spent"`
	Balance     string    `json:"balance"`
}

type CreatePrizeRequest struct {
	BusinessUnitID string           `json:"business_unit_id" binding:"required"`
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	PointsCost     *decimal.Decimal `json:"points_cost" swaggertype:"string" example:"250.00"`
	Stock          int              `json:"stock" binding:"min=0"`
}

type RedemptionRequest struct {
	PrizeID     string           `json:"prize_id" binding:"required"`
	SalesRepID  string           `json:"sales_rep_id"` // managers and admins may redeem on behalf of a rep
	PointsSpent *decimal.Decimal `json:"points_spent" swaggertype:"string"`
}

type UpdateRedemptionRequest struct {
	Status string `json:"status" binding:"required"`
}

type RedemptionResponse struct {
	ID          uuid.UUID `json:"id"`
	SalesRepID  uuid.UUID `json:"sales_rep_id"`
	PrizeID     uuid.UUID `json:"prize_id"`
	PrizeName   string    `json:"prize_name,omitempty"`
	PointsSpent string    `json:"points_spent"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Interface ---

type RewardService interface {
	GetPointsSummary(ctx context.Context, actor Actor, salesRepID string) (PointsSummary, error)
	ListPrizes(ctx context.Context, actor Actor, businessUnitID string) ([]model.Prize, error)
	CreatePrize(ctx context.Context, req CreatePrizeRequest) (model.Prize, error)
	RequestRedemption(ctx context.Context, actor Actor, req RedemptionRequest) (RedemptionResponse, error)
	UpdateRedemptionStatus(ctx context.Context, actor Actor, id string, status string) (RedemptionResponse, error)
	ListRedemptions(ctx context.Context, actor Actor, status string, page, limit int) ([]RedemptionResponse, int64, error)
}

// --- Implementation ---

type rewardService struct {
	salesRepRepo    repository.SalesRepRepository
	rewardPointRepo repository.RewardPointRepository
	prizeRepo       repository.PrizeRepository
	redemptionRepo  repository.RedemptionRepository
	catalogRepo     repository.CatalogRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
}

func NewRewardService(
	salesRepRepo repository.SalesRepRepository,
	rewardPointRepo repository.RewardPointRepository,
	prizeRepo repository.PrizeRepository,
	redemptionRepo repository.RedemptionRepository,
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RewardService {
	return &rewardService{
		salesRepRepo:    salesRepRepo,
		rewardPointRepo: rewardPointRepo,
		prizeRepo:       prizeRepo,
		redemptionRepo:  redemptionRepo,
		catalogRepo:     catalogRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
	}
}

func (s *rewardService) GetPointsSummary(ctx context.Context, actor Actor, salesRepID string) (PointsSummary, error) {
	rep, err := s.resolveRep(ctx, actor, salesRepID, false)
	if err != nil {
		return PointsSummary{}, err
	}

	earned, spent, err := s.balance(ctx, rep.ID)
	if err != nil {
		return PointsSummary{}, err
	}

	return PointsSummary{
		SalesRepID:  rep.ID,
		TotalPoints: money.Format(earned),
		PointsSpent: money.Format(spent),
		Balance:     money.Format(earned.Sub(spent)),
	}, nil
}

func (s *rewardService) ListPrizes(ctx context.Context, actor Actor, businessUnitID string) ([]model.Prize, error) {
	buID, err := optionalID(businessUnitID, "business_unit_id")
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		// Non-admins only see the active catalog of their own business unit.
		own, err := s.actorBusinessUnit(ctx, actor)
		if err != nil {
			return nil, err
		}
		buID = &own
	}

	prizes, err := s.prizeRepo.List(ctx, buID, !actor.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prizes: %w", err)
	}
	return prizes, nil
}

func (s *rewardService) CreatePrize(ctx context.Context, req CreatePrizeRequest) (model.Prize, error) {
	buID, err := parseID(req.BusinessUnitID, "business_unit_id")
	if err != nil {
		return model.Prize{}, err
	}
	if _, err := s.catalogRepo.FindBusinessUnit(ctx, buID); err != nil {
		return model.Prize{}, referenceErr("business unit", err)
	}
	if req.PointsCost == nil || !req.PointsCost.IsPositive() || !money.HasAtMostPlaces(*req.PointsCost, money.Places) {
		return model.Prize{}, fmt.Errorf("%w: points_cost must be positive with at most 2 decimal places", ErrValidation)
	}
	if req.Stock < 0 {
		return model.Prize{}, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	prize := model.Prize{
		BusinessUnitID: buID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		PointsCost:     *req.PointsCost,
		Stock:          req.Stock,
		IsActive:       true,
	}
	if err := s.prizeRepo.Create(ctx, &prize); err != nil {
		return model.Prize{}, writeErr("prize", err)
	}
	return prize, nil
}

func (s *rewardService) RequestRedemption(ctx context.Context, actor Actor, req RedemptionRequest) (RedemptionResponse, error) {
	prizeID, err := parseID(req.PrizeID, "prize_id")
	if err != nil {
		return RedemptionResponse{}, err
	}

	var redemption model.Redemption
	var prize *model.Prize
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// The rep row lock serializes concurrent redemptions against the same balance.
		rep, err := s.resolveRep(txCtx, actor, req.SalesRepID, true)
		if err != nil {
			return err
		}

		prize, err = s.prizeRepo.FindByID(txCtx, prizeID)
		if err != nil {
			return referenceErr("prize", err)
		}
		if !prize.IsActive {
			return fmt.Errorf("%w: prize is not available", ErrValidation)
		}
		if prize.BusinessUnitID != rep.BusinessUnitID {
			return fmt.Errorf("%w: prize belongs to another business unit", ErrValidation)
		}
		if prize.Stock <= 0 {
			return ErrOutOfStock
		}

		cost := prize.PointsCost
		if req.PointsSpent != nil {
			if req.PointsSpent.LessThan(prize.PointsCost) || !money.HasAtMostPlaces(*req.PointsSpent, money.Places) {
				return fmt.Errorf("%w: points_spent must cover the prize cost", ErrValidation)
			}
			cost = *req.PointsSpent
		}

		earned, spent, err := s.balance(txCtx, rep.ID)
		if err != nil {
			return err
		}
		if earned.Sub(spent).LessThan(cost) {
			return ErrInsufficientPoints
		}

		redemption = model.Redemption{
			SalesRepID:  rep.ID,
			PrizeID:     prize.ID,
			PointsSpent: cost,
			Status:      model.RedemptionRequested,
		}
		if err := s.redemptionRepo.Create(txCtx, &redemption); err != nil {
			return fmt.Errorf("failed to create redemption: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionRequestRedemption, redemption.ID.String(), prize.Name, map[string]interface{}{
			"sales_rep_id": rep.ID,
			"points_spent": money.Format(cost),
		})
	})
	if err != nil {
		return RedemptionResponse{}, err
	}

	redemption.Prize = prize
	return toRedemptionResponse(redemption), nil
}

func (s *rewardService) UpdateRedemptionStatus(ctx context.Context, actor Actor, id string, status string) (RedemptionResponse, error) {
	redemptionID, err := parseID(id, "redemption ID")
	if err != nil {
		return RedemptionResponse{}, err
	}

	var redemption *model.Redemption
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.redemptionRepo.FindByIDForUpdate(txCtx, redemptionID)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: redemption", ErrNotFound)
			}
			return fmt.Errorf("failed to load redemption: %w", err)
		}
		redemption = found

		rep, err := s.salesRepRepo.FindByID(txCtx, redemption.SalesRepID)
		if err != nil {
			return fmt.Errorf("failed to load sales rep: %w", err)
		}
		if actor.Role == model.RoleSalesRep || !actor.CanAccess(rep.BusinessUnitID, rep.ID) {
			return fmt.Errorf("%w: cannot review this redemption", ErrForbidden)
		}

		if !redemptionTransitionAllowed(redemption.Status, status) {
			return fmt.Errorf("%w: cannot move redemption from %s to %s", ErrValidation, redemption.Status, status)
		}

		if status == model.RedemptionApproved {
			prize, err := s.prizeRepo.FindByIDForUpdate(txCtx, redemption.PrizeID)
			if err != nil {
				return fmt.Errorf("failed to load prize: %w", err)
			}
			if prize.Stock <= 0 {
				return ErrOutOfStock
			}
			prize.Stock--
			if err := s.prizeRepo.Update(txCtx, prize); err != nil {
				return fmt.Errorf("failed to update prize stock: %w", err)
			}
			redemption.Prize = prize
		}

		previous := redemption.Status
		redemption.Status = status
		if err := s.redemptionRepo.Update(txCtx, redemption); err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionUpdateRedemption, redemption.ID.String(), "Redemption", map[string]interface{}{
			"previous_status": previous,
			"status":          status,
		})
	})
	if err != nil {
		return RedemptionResponse{}, err
	}
	return toRedemptionResponse(*redemption), nil
}

func (s *rewardService) ListRedemptions(ctx context.Context, actor Actor, status string, page, limit int) ([]RedemptionResponse, int64, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, 0, err
	}

	redemptions, total, err := s.redemptionRepo.List(ctx, scope, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch redemptions: %w", err)
	}

	res := make([]RedemptionResponse, 0, len(redemptions))
	for _, r := range redemptions {
		res = append(res, toRedemptionResponse(r))
	}
	return res, total, nil
}

// --- Helpers ---

// balance returns points earned and points held by redemptions that were not rejected.
func (s *rewardService) balance(ctx context.Context, salesRepID uuid.UUID) (earned, spent decimal.Decimal, err error) {
	if earned, err = s.rewardPointRepo.SumBySalesRep(ctx, salesRepID); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum reward points: %w", err)
	}
	if spent, err = s.redemptionRepo.SumSpentBySalesRep(ctx, salesRepID); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum redemptions: %w", err)
	}
	return money.RoundHalfUp(earned), money.RoundHalfUp(spent), nil
}

// resolveRep picks the rep an operation targets: the caller's own profile for SALES_REP,
// otherwise the explicit salesRepID, checked against the caller's scope.
func (s *rewardService) resolveRep(ctx context.Context, actor Actor, salesRepID string, lock bool) (*model.SalesRep, error) {
	var repID uuid.UUID
	switch {
	case actor.Role == model.RoleSalesRep:
		if actor.SalesRepID == nil {
			return nil, fmt.Errorf("%w: user has no sales rep profile", ErrForbidden)
		}
		repID = *actor.SalesRepID
	case salesRepID == "":
		return nil, fmt.Errorf("%w: sales_rep_id is required", ErrValidation)
	default:
		id, err := parseID(salesRepID, "sales_rep_id")
		if err != nil {
			return nil, err
		}
		repID = id
	}

	find := s.salesRepRepo.FindByID
	if lock {
		find = s.salesRepRepo.FindByIDForUpdate
	}
	rep, err := find(ctx, repID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: sales rep", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load sales rep: %w", err)
	}
	if !actor.CanAccess(rep.BusinessUnitID, rep.ID) {
		return nil, fmt.Errorf("%w: sales rep belongs to another scope", ErrForbidden)
	}
	return rep, nil
}

func (s *rewardService) actorBusinessUnit(ctx context.Context, actor Actor) (uuid.UUID, error) {
	if actor.BusinessUnitID != nil {
		return *actor.BusinessUnitID, nil
	}
	if actor.SalesRepID != nil {
		rep, err := s.salesRepRepo.FindByID(ctx, *actor.SalesRepID)
		if err == nil {
			return rep.BusinessUnitID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: caller has no business unit", ErrForbidden)
}

func redemptionTransitionAllowed(from, to string) bool {
	for _, next := range redemptionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func toRedemptionResponse(r model.Redemption) RedemptionResponse {
	res := RedemptionResponse{
		ID:          r.ID,
		SalesRepID:  r.SalesRepID,
		PrizeID:     r.PrizeID,
		PointsSpent: money.Format(r.PointsSpent),
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Prize != nil {
		res.PrizeName = r.Prize.Name
	}
	return res
}
