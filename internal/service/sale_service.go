package service

import (
	"context"
	"fmt"
	"time"

	"salescrm/internal/cache"
	"salescrm/internal/compensation"
	"salescrm/internal/metrics"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventSaleConfirmed is published after a sale confirmation has committed.
const EventSaleConfirmed = "sale.confirmed"

// Event is a notification about one sale. BusinessUnitID and SalesRepID route it: only
// clients whose Actor can access that pair receive it.
type Event struct {
	Type           string
	BusinessUnitID uuid.UUID
	SalesRepID     uuid.UUID
	Payload        interface{}
}

// EventPublisher fans events out to connected clients. Publish must not block.
type EventPublisher interface {
	Publish(event Event)
}

var maxSaleAmount = decimal.New(1, 10) // decimal(12,2) holds at most 9,999,999,999.99

// --- DTOs ---

type CreateSaleRequest struct {
	BusinessUnitID    string           `json:"business_unit_id" binding:"required"`
	SalesRepID        string           `json:"sales_rep_id"` // defaults to the caller's own profile
	ProductID         string           `json:"product_id" binding:"required"`
	PlanID            string           `json:"plan_id" binding:"required"`
	Amount            *decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Status            string           `json:"status"` // defaults to DRAFT
	ExternalReference string           `json:"external_reference"`
}

type UpdateSaleRequest struct {
	SalesRepID        *string          `json:"sales_rep_id"`
	ProductID         *string          `json:"product_id"`
	PlanID            *string          `json:"plan_id"`
	Amount            *decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Status            *string          `json:"status"`
	ExternalReference *string          `json:"external_reference"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SaleListFilter struct {
	Status         string
	BusinessUnitID string
	Page           int
	Limit          int
}

type SaleResponse struct {
	ID                uuid.UUID       `json:"id"`
	BusinessUnitID    uuid.UUID       `json:"business_unit_id"`
	SalesRepID        uuid.UUID       `json:"sales_rep_id"`
	SalesRepName      string          `json:"sales_rep_name,omitempty"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	PlanID            uuid.UUID       `json:"plan_id"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string"`
	Status            string          `json:"status"`
	ExternalReference string          `json:"external_reference"`
	ConfirmedAt       *time.Time      `json:"confirmed_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type CommissionResponse struct {
	ID               uuid.UUID `json:"id"`
	CommissionAmount string    `json:"commission_amount"`
	BonusAmount      string    `json:"bonus_amount"`
	TotalAmount      string    `json:"total_amount"`
	CalculatedAt     time.Time `json:"calculated_at"`
}

type RewardPointResponse struct {
	ID        uuid.UUID `json:"id"`
	Points    string    `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

type SaleDetailResponse struct {
	SaleResponse
	Commission  *CommissionResponse  `json:"commission"`
	RewardPoint *RewardPointResponse `json:"reward_point"`
}

// --- Interface ---

type SaleService interface {
	CreateSale(ctx context.Context, actor Actor, req CreateSaleRequest) (SaleDetailResponse, error)
	UpdateSale(ctx context.Context, actor Actor, id string, req UpdateSaleRequest) (SaleDetailResponse, error)
	ChangeStatus(ctx context.Context, actor Actor, id string, status string) (SaleDetailResponse, error)
	GetSale(ctx context.Context, actor Actor, id string) (SaleDetailResponse, error)
	ListSales(ctx context.Context, actor Actor, filter SaleListFilter) ([]SaleResponse, int64, error)
}

// --- Implementation ---

type saleService struct {
	saleRepo        repository.SaleRepository
	catalogRepo     repository.CatalogRepository
	salesRepRepo    repository.SalesRepRepository
	commissionRepo  repository.CommissionRepository
	rewardPointRepo repository.RewardPointRepository
	auditRepo       repository.AuditRepository
	compensation    CompensationService
	txManager       repository.TransactionManager
	events          EventPublisher
	cache           cache.Cache
	log             *zap.Logger
	now             func() time.Time
}

type SaleServiceDeps struct {
	SaleRepo        repository.SaleRepository
	CatalogRepo     repository.CatalogRepository
	SalesRepRepo    repository.SalesRepRepository
	CommissionRepo  repository.CommissionRepository
	RewardPointRepo repository.RewardPointRepository
	AuditRepo       repository.AuditRepository
	Compensation    CompensationService
	TxManager       repository.TransactionManager
	Events          EventPublisher // optional
	Cache           cache.Cache    // optional
	Log             *zap.Logger
}

func NewSaleService(deps SaleServiceDeps) SaleService {
	c := deps.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	return &saleService{
		saleRepo:        deps.SaleRepo,
		catalogRepo:     deps.CatalogRepo,
		salesRepRepo:    deps.SalesRepRepo,
		commissionRepo:  deps.CommissionRepo,
		rewardPointRepo: deps.RewardPointRepo,
		auditRepo:       deps.AuditRepo,
		compensation:    deps.Compensation,
		txManager:       deps.TxManager,
		events:          deps.Events,
		cache:           c,
		log:             deps.Log.Named("sales"),
		now:             time.Now,
	}
}

func (s *saleService) CreateSale(ctx context.Context, actor Actor, req CreateSaleRequest) (SaleDetailResponse, error) {
	sale, err := s.newSale(actor, req)
	if err != nil {
		return SaleDetailResponse{}, err
	}

	var outcome CompensationOutcome
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkReferences(txCtx, sale); err != nil {
			return err
		}

		confirmed := compensation.ApplyTransition(nil, sale, s.now())
		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		if err := writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionCreateSale, sale.ID.String(), "Sale", map[string]interface{}{
			"status": sale.Status,
			"amount": money.Format(sale.Amount),
		}); err != nil {
			return err
		}

		if confirmed {
			res, err := s.compensation.OnSaleConfirmedTransition(txCtx, sale)
			if err != nil {
				return err
			}
			outcome = res
		}
		return nil
	})
	if err != nil {
		return SaleDetailResponse{}, err
	}

	s.afterCommit(ctx, sale, outcome)
	return s.detail(ctx, sale.ID)
}

func (s *saleService) UpdateSale(ctx context.Context, actor Actor, id string, req UpdateSaleRequest) (SaleDetailResponse, error) {
	saleID, err := parseID(id, "sale ID")
	if err != nil {
		return SaleDetailResponse{}, err
	}

	var sale *model.Sale
	var outcome CompensationOutcome
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.saleRepo.FindByIDForUpdate(txCtx, saleID)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: sale", ErrNotFound)
			}
			return fmt.Errorf("failed to load sale: %w", err)
		}
		sale = locked
		if !actor.CanAccess(sale.BusinessUnitID, sale.SalesRepID) {
			return fmt.Errorf("%w: sale belongs to another scope", ErrForbidden)
		}

		previous := sale.Status
		if err := applySaleChanges(actor, sale, req); err != nil {
			return err
		}
		if err := s.checkReferences(txCtx, sale); err != nil {
			return err
		}

		confirmed := compensation.ApplyTransition(&previous, sale, s.now())
		if err := s.saleRepo.Save(txCtx, sale); err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}

		action := model.ActionUpdateSale
		if previous != sale.Status {
			action = model.ActionChangeSaleStatus
		}
		if err := writeAudit(txCtx, s.auditRepo, actor.userRef(), action, sale.ID.String(), "Sale", map[string]interface{}{
			"previous_status": previous,
			"status":          sale.Status,
			"amount":          money.Format(sale.Amount),
		}); err != nil {
			return err
		}

		if confirmed {
			res, err := s.compensation.OnSaleConfirmedTransition(txCtx, sale)
			if err != nil {
				return err
			}
			outcome = res
		}
		return nil
	})
	if err != nil {
		return SaleDetailResponse{}, err
	}

	s.afterCommit(ctx, sale, outcome)
	return s.detail(ctx, sale.ID)
}

func (s *saleService) ChangeStatus(ctx context.Context, actor Actor, id string, status string) (SaleDetailResponse, error) {
	return s.UpdateSale(ctx, actor, id, UpdateSaleRequest{Status: &status})
}

func (s *saleService) GetSale(ctx context.Context, actor Actor, id string) (SaleDetailResponse, error) {
	saleID, err := parseID(id, "sale ID")
	if err != nil {
		return SaleDetailResponse{}, err
	}

	res, err := s.detail(ctx, saleID)
	if err != nil {
		return SaleDetailResponse{}, err
	}
	if !actor.CanAccess(res.BusinessUnitID, res.SalesRepID) {
		return SaleDetailResponse{}, fmt.Errorf("%w: sale belongs to another scope", ErrForbidden)
	}
	return res, nil
}

func (s *saleService) ListSales(ctx context.Context, actor Actor, filter SaleListFilter) ([]SaleResponse, int64, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !model.IsValidSaleStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.BusinessUnitID != "" && actor.IsAdmin() {
		buID, err := parseID(filter.BusinessUnitID, "business_unit_id")
		if err != nil {
			return nil, 0, err
		}
		scope.BusinessUnitID = &buID
	}

	sales, total, err := s.saleRepo.List(ctx, repository.SaleFilter{
		Scope:  scope,
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}

	res := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		res = append(res, toSaleResponse(sale))
	}
	return res, total, nil
}

// --- Helpers ---

func (s *saleService) newSale(actor Actor, req CreateSaleRequest) (*model.Sale, error) {
	buID, err := parseID(req.BusinessUnitID, "business_unit_id")
	if err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	planID, err := parseID(req.PlanID, "plan_id")
	if err != nil {
		return nil, err
	}

	var repID uuid.UUID
	switch {
	case actor.Role == model.RoleSalesRep:
		if actor.SalesRepID == nil {
			return nil, fmt.Errorf("%w: user has no sales rep profile", ErrForbidden)
		}
		repID = *actor.SalesRepID
	case req.SalesRepID == "":
		return nil, fmt.Errorf("%w: sales_rep_id is required", ErrValidation)
	default:
		if repID, err = parseID(req.SalesRepID, "sales_rep_id"); err != nil {
			return nil, err
		}
	}

	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	if err := validateSaleAmount(*req.Amount); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.SaleStatusDraft
	}
	if !model.IsValidSaleStatus(status) {
		return nil, fmt.Errorf("%w: status must be one of DRAFT, PENDING, CONFIRMED, CANCELLED", ErrValidation)
	}

	sale := &model.Sale{
		BusinessUnitID:    buID,
		SalesRepID:        repID,
		ProductID:         productID,
		PlanID:            planID,
		Amount:            *req.Amount,
		Status:            status,
		ExternalReference: req.ExternalReference,
	}
	if !actor.CanAccess(sale.BusinessUnitID, sale.SalesRepID) {
		return nil, fmt.Errorf("%w: cannot create sales outside your scope", ErrForbidden)
	}
	return sale, nil
}

func applySaleChanges(actor Actor, sale *model.Sale, req UpdateSaleRequest) error {
	if req.SalesRepID != nil {
		if actor.Role == model.RoleSalesRep {
			return fmt.Errorf("%w: sales reps cannot reassign sales", ErrForbidden)
		}
		repID, err := parseID(*req.SalesRepID, "sales_rep_id")
		if err != nil {
			return err
		}
		sale.SalesRepID = repID
	}
	if req.ProductID != nil {
		productID, err := parseID(*req.ProductID, "product_id")
		if err != nil {
			return err
		}
		sale.ProductID = productID
	}
	if req.PlanID != nil {
		planID, err := parseID(*req.PlanID, "plan_id")
		if err != nil {
			return err
		}
		sale.PlanID = planID
	}
	if req.Amount != nil {
		if err := validateSaleAmount(*req.Amount); err != nil {
			return err
		}
		sale.Amount = *req.Amount
	}
	if req.Status != nil {
		if !model.IsValidSaleStatus(*req.Status) {
			return fmt.Errorf("%w: status must be one of DRAFT, PENDING, CONFIRMED, CANCELLED", ErrValidation)
		}
		sale.Status = *req.Status
	}
	if req.ExternalReference != nil {
		sale.ExternalReference = *req.ExternalReference
	}
	return nil
}

func validateSaleAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	if !money.HasAtMostPlaces(amount, money.Places) {
		return fmt.Errorf("%w: amount has more than 2 decimal places", ErrValidation)
	}
	if amount.GreaterThanOrEqual(maxSaleAmount) {
		return fmt.Errorf("%w: amount is too large", ErrValidation)
	}
	return nil
}

// checkReferences loads the rows sale points at and enforces the cross-entity invariants.
func (s *saleService) checkReferences(ctx context.Context, sale *model.Sale) error {
	product, err := s.catalogRepo.FindProduct(ctx, sale.ProductID)
	if err != nil {
		return referenceErr("product", err)
	}
	plan, err := s.catalogRepo.FindPlan(ctx, sale.PlanID)
	if err != nil {
		return referenceErr("compensation plan", err)
	}
	rep, err := s.salesRepRepo.FindByID(ctx, sale.SalesRepID)
	if err != nil {
		return referenceErr("sales rep", err)
	}

	return compensation.ValidateSale(sale, compensation.References{
		Product:  product,
		Plan:     plan,
		SalesRep: rep,
	})
}

func referenceErr(name string, err error) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: %s not found", ErrValidation, name)
	}
	return fmt.Errorf("failed to load %s: %w", name, err)
}

// afterCommit runs the side effects that must only happen once the write is durable.
// A re-confirmation after CANCELLED compensates nothing, so it is neither counted nor announced.
func (s *saleService) afterCommit(ctx context.Context, sale *model.Sale, outcome CompensationOutcome) {
	if err := s.cache.DeletePrefix(ctx, DashboardCachePrefix); err != nil {
		s.log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
	if !outcome.Created {
		return
	}

	metrics.SalesConfirmed.Inc()
	if s.events != nil {
		s.events.Publish(Event{
			Type:           EventSaleConfirmed,
			BusinessUnitID: sale.BusinessUnitID,
			SalesRepID:     sale.SalesRepID,
			Payload: map[string]interface{}{
				"sale_id":          sale.ID,
				"business_unit_id": sale.BusinessUnitID,
				"sales_rep_id":     sale.SalesRepID,
				"amount":           money.Format(sale.Amount),
				"confirmed_at":     sale.ConfirmedAt,
			},
		})
	}
}

func (s *saleService) detail(ctx context.Context, id uuid.UUID) (SaleDetailResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return SaleDetailResponse{}, fmt.Errorf("%w: sale", ErrNotFound)
		}
		return SaleDetailResponse{}, fmt.Errorf("failed to load sale: %w", err)
	}

	res := SaleDetailResponse{SaleResponse: toSaleResponse(*sale)}

	commission, err := s.commissionRepo.FindBySaleID(ctx, id)
	switch {
	case err == nil:
		res.Commission = &CommissionResponse{
			ID:               commission.ID,
			CommissionAmount: money.Format(commission.CommissionAmount),
			BonusAmount:      money.Format(commission.BonusAmount),
			TotalAmount:      money.Format(commission.TotalAmount),
			CalculatedAt:     commission.CalculatedAt,
		}
	case !repository.IsNotFound(err):
		return SaleDetailResponse{}, fmt.Errorf("failed to load commission: %w", err)
	}

	point, err := s.rewardPointRepo.FindBySaleID(ctx, id)
	switch {
	case err == nil:
		res.RewardPoint = &RewardPointResponse{
			ID:        point.ID,
			Points:    money.Format(point.Points),
			CreatedAt: point.CreatedAt,
		}
	case !repository.IsNotFound(err):
		return SaleDetailResponse{}, fmt.Errorf("failed to load reward points: %w", err)
	}

	return res, nil
}

func toSaleResponse(s model.Sale) SaleResponse {
	res := SaleResponse{
		ID:                s.ID,
		BusinessUnitID:    s.BusinessUnitID,
		SalesRepID:        s.SalesRepID,
		ProductID:         s.ProductID,
		PlanID:            s.PlanID,
		Amount:            s.Amount,
		Status:            s.Status,
		ExternalReference: s.ExternalReference,
		ConfirmedAt:       s.ConfirmedAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.SalesRep != nil {
		res.SalesRepName = s.SalesRep.DisplayName
	}
	if s.Product != nil {
		res.ProductName = s.Product.Name
	}
	return res
}
