package service

import (
	"context"
	"fmt"
	"strings"

	"salescrm/internal/model"
	"salescrm/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateLeadRequest struct {
	BusinessUnitID string `json:"business_unit_id"` // ADMIN only; others use their own unit
	SalesRepID     string `json:"sales_rep_id"`     // optional; a SALES_REP always owns what they create
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Source         string `json:"source"`
}

type AssignLeadRequest struct {
	SalesRepID string `json:"sales_rep_id" binding:"required"`
}

type LeadListFilter struct {
	Source     string
	Unassigned bool
	Page       int
	Limit      int
}

// --- Interface ---

type LeadService interface {
	CreateLead(ctx context.Context, actor Actor, req CreateLeadRequest) (model.Lead, error)
	// AssignLead hands a lead to a sales rep of the lead's own business unit.
	AssignLead(ctx context.Context, actor Actor, id string, req AssignLeadRequest) (model.Lead, error)
	ListLeads(ctx context.Context, actor Actor, filter LeadListFilter) ([]model.Lead, int64, error)
}

// --- Implementation ---

type leadService struct {
	leadRepo     repository.LeadRepository
	salesRepRepo repository.SalesRepRepository
	catalogRepo  repository.CatalogRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewLeadService(
	leadRepo repository.LeadRepository,
	salesRepRepo repository.SalesRepRepository,
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) LeadService {
	return &leadService{
		leadRepo:     leadRepo,
		salesRepRepo: salesRepRepo,
		catalogRepo:  catalogRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *leadService) CreateLead(ctx context.Context, actor Actor, req CreateLeadRequest) (model.Lead, error) {
	lead := model.Lead{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Source:   strings.TrimSpace(req.Source),
	}
	if err := validateLead(lead); err != nil {
		return model.Lead{}, err
	}

	unitID, err := s.leadUnit(ctx, actor, req.BusinessUnitID)
	if err != nil {
		return model.Lead{}, err
	}
	lead.BusinessUnitID = unitID

	repRaw := req.SalesRepID
	if actor.Role == model.RoleSalesRep {
		repRaw = actor.SalesRepID.String()
	}
	if repRaw != "" {
		rep, err := s.unitRep(ctx, repRaw, unitID)
		if err != nil {
			return model.Lead{}, err
		}
		lead.SalesRepID = &rep.ID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leadRepo.Create(txCtx, &lead); err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionCreateLead, lead.ID.String(), "Lead", map[string]interface{}{
			"business_unit_id": lead.BusinessUnitID,
			"sales_rep_id":     lead.SalesRepID,
			"source":           lead.Source,
		})
	})
	if err != nil {
		return model.Lead{}, err
	}
	return lead, nil
}

func (s *leadService) AssignLead(ctx context.Context, actor Actor, id string, req AssignLeadRequest) (model.Lead, error) {
	if actor.Role == model.RoleSalesRep {
		return model.Lead{}, fmt.Errorf("%w: sales reps cannot reassign leads", ErrForbidden)
	}
	leadID, err := parseID(id, "lead ID")
	if err != nil {
		return model.Lead{}, err
	}

	var lead *model.Lead
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.leadRepo.FindByIDForUpdate(txCtx, leadID)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: lead", ErrNotFound)
			}
			return fmt.Errorf("failed to load lead: %w", err)
		}
		lead = locked
		if actor.Role == model.RoleManager && (actor.BusinessUnitID == nil || *actor.BusinessUnitID != lead.BusinessUnitID) {
			return fmt.Errorf("%w: lead", ErrNotFound)
		}

		rep, err := s.unitRep(txCtx, req.SalesRepID, lead.BusinessUnitID)
		if err != nil {
			return err
		}
		previous := lead.SalesRepID
		lead.SalesRepID = &rep.ID
		if err := s.leadRepo.Save(txCtx, lead); err != nil {
			return fmt.Errorf("failed to assign lead: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionAssignLead, lead.ID.String(), "Lead", map[string]interface{}{
			"previous_sales_rep_id": previous,
			"sales_rep_id":          rep.ID,
		})
	})
	if err != nil {
		return model.Lead{}, err
	}
	return *lead, nil
}

func (s *leadService) ListLeads(ctx context.Context, actor Actor, filter LeadListFilter) ([]model.Lead, int64, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, 0, err
	}
	leads, total, err := s.leadRepo.List(ctx, scope, repository.LeadFilter{
		Source:     filter.Source,
		Unassigned: filter.Unassigned,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch leads: %w", err)
	}
	return leads, total, nil
}

// leadUnit resolves the business unit a new lead is filed under.
func (s *leadService) leadUnit(ctx context.Context, actor Actor, raw string) (uuid.UUID, error) {
	switch actor.Role {
	case model.RoleAdmin:
		id, err := parseID(raw, "business_unit_id")
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := s.catalogRepo.FindBusinessUnit(ctx, id); err != nil {
			return uuid.Nil, referenceErr("business unit", err)
		}
		return id, nil
	case model.RoleManager, model.RoleSalesRep:
		if actor.BusinessUnitID == nil {
			return uuid.Nil, fmt.Errorf("%w: user has no business unit", ErrForbidden)
		}
		if actor.Role == model.RoleSalesRep && actor.SalesRepID == nil {
			return uuid.Nil, fmt.Errorf("%w: user has no sales rep profile", ErrForbidden)
		}
		if raw != "" {
			id, err := parseID(raw, "business_unit_id")
			if err != nil {
				return uuid.Nil, err
			}
			if id != *actor.BusinessUnitID {
				return uuid.Nil, fmt.Errorf("%w: lead belongs to another business unit", ErrForbidden)
			}
		}
		return *actor.BusinessUnitID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, actor.Role)
}

// unitRep loads an active sales rep and checks it works in unitID.
func (s *leadService) unitRep(ctx context.Context, raw string, unitID uuid.UUID) (*model.SalesRep, error) {
	repID, err := parseID(raw, "sales_rep_id")
	if err != nil {
		return nil, err
	}
	rep, err := s.salesRepRepo.FindByID(ctx, repID)
	if err != nil {
		return nil, referenceErr("sales rep", err)
	}
	if rep.BusinessUnitID != unitID {
		return nil, fmt.Errorf("%w: sales rep works in another business unit", ErrValidation)
	}
	if !rep.IsActive {
		return nil, fmt.Errorf("%w: sales rep is inactive", ErrValidation)
	}
	return rep, nil
}

func validateLead(lead model.Lead) error {
	if lead.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if len(lead.FullName) > 120 {
		return fmt.Errorf("%w: full_name must be at most 120 characters", ErrValidation)
	}
	if len(lead.Phone) > 30 {
		return fmt.Errorf("%w: phone must be at most 30 characters", ErrValidation)
	}
	if len(lead.Source) > 80 {
		return fmt.Errorf("%w: source must be at most 80 characters", ErrValidation)
	}
	return validateContactEmail(lead.Email)
}
