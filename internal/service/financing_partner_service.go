package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateFinancingPartnerRequest struct {
	Name            string   `json:"name" binding:"required"`
	PartnerType     string   `json:"partner_type"` // defaults to BANK
	BusinessUnitIDs []string `json:"business_unit_ids"`
	ContactName     string   `json:"contact_name"`
	ContactEmail    string   `json:"contact_email"`
	ContactPhone    string   `json:"contact_phone"`
	Website         string   `json:"website"`
	Services        string   `json:"services"`
	Notes           string   `json:"notes"`
	Priority        *int     `json:"priority"`
}

type UpdateFinancingPartnerRequest struct {
	Name            *string   `json:"name"`
	PartnerType     *string   `json:"partner_type"`
	BusinessUnitIDs *[]string `json:"business_unit_ids"` // pointer so nil = not sent, [] = clear all
	ContactName     *string   `json:"contact_name"`
	ContactEmail    *string   `json:"contact_email"`
	ContactPhone    *string   `json:"contact_phone"`
	Website         *string   `json:"website"`
	Services        *string   `json:"services"`
	Notes           *string   `json:"notes"`
	Priority        *int      `json:"priority"`
	IsActive        *bool     `json:"is_active"`
}

type FinancingPartnerFilter struct {
	PartnerType    string
	BusinessUnitID string
	Search         string
	Page           int
	Limit          int
}

type BusinessUnitRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

type FinancingPartnerResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	PartnerType   string            `json:"partner_type"`
	BusinessUnits []BusinessUnitRef `json:"business_units"`
	ContactName   string            `json:"contact_name"`
	ContactEmail  string            `json:"contact_email"`
	ContactPhone  string            `json:"contact_phone"`
	Website       string            `json:"website"`
	Services      string            `json:"services"`
	Notes         string            `json:"notes"`
	IsActive      bool              `json:"is_active"`
	Priority      int               `json:"priority"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Interface ---

type FinancingPartnerService interface {
	CreatePartner(ctx context.Context, req CreateFinancingPartnerRequest) (FinancingPartnerResponse, error)
	UpdatePartner(ctx context.Context, id string, req UpdateFinancingPartnerRequest) (FinancingPartnerResponse, error)
	DeletePartner(ctx context.Context, id string) error
	GetPartners(ctx context.Context, actor Actor, filter FinancingPartnerFilter) ([]FinancingPartnerResponse, int64, error)
}

// --- Implementation ---

type financingPartnerService struct {
	partnerRepo repository.FinancingPartnerRepository
	catalogRepo repository.CatalogRepository
	txManager   repository.TransactionManager
}

func NewFinancingPartnerService(partnerRepo repository.FinancingPartnerRepository, catalogRepo repository.CatalogRepository, txManager repository.TransactionManager) FinancingPartnerService {
	return &financingPartnerService{partnerRepo: partnerRepo, catalogRepo: catalogRepo, txManager: txManager}
}

// --- Validation helpers ---

var validFinancingPartnerTypes = map[string]bool{
	model.FinancingPartnerBank:        true,
	model.FinancingPartnerCooperative: true,
	model.FinancingPartnerOther:       true,
}

func validateContactEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

func (s *financingPartnerService) loadBusinessUnits(ctx context.Context, ids []string) ([]model.BusinessUnit, error) {
	units := make([]model.BusinessUnit, 0, len(ids))
	for i, raw := range ids {
		id, err := parseID(raw, fmt.Sprintf("business_unit_ids[%d]", i))
		if err != nil {
			return nil, err
		}
		bu, err := s.catalogRepo.FindBusinessUnit(ctx, id)
		if err != nil {
			return nil, referenceErr("business unit", err)
		}
		units = append(units, *bu)
	}
	return units, nil
}

// --- CRUD ---

func (s *financingPartnerService) CreatePartner(ctx context.Context, req CreateFinancingPartnerRequest) (FinancingPartnerResponse, error) {
	if req.Name == "" {
		return FinancingPartnerResponse{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	partnerType := req.PartnerType
	if partnerType == "" {
		partnerType = model.FinancingPartnerBank
	}
	if !validFinancingPartnerTypes[partnerType] {
		return FinancingPartnerResponse{}, fmt.Errorf("%w: partner_type must be one of: BANK, COOPERATIVE, OTHER", ErrValidation)
	}
	if err := validateContactEmail(req.ContactEmail); err != nil {
		return FinancingPartnerResponse{}, err
	}
	units, err := s.loadBusinessUnits(ctx, req.BusinessUnitIDs)
	if err != nil {
		return FinancingPartnerResponse{}, err
	}

	partner := &model.FinancingPartner{
		Name:          req.Name,
		PartnerType:   partnerType,
		BusinessUnits: units,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Website:       req.Website,
		Services:      req.Services,
		Notes:         req.Notes,
		IsActive:      true,
		Priority:      100,
	}
	if req.Priority != nil {
		partner.Priority = *req.Priority
	}

	// GORM writes the join rows for BusinessUnits in the same Create
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return FinancingPartnerResponse{}, writeErr("financing partner", err)
	}

	return toFinancingPartnerResponse(*partner), nil
}

func (s *financingPartnerService) UpdatePartner(ctx context.Context, id string, req UpdateFinancingPartnerRequest) (FinancingPartnerResponse, error) {
	uid, err := parseID(id, "partner ID")
	if err != nil {
		return FinancingPartnerResponse{}, err
	}

	partner, err := s.partnerRepo.FindByID(ctx, uid)
	if err != nil {
		if repository.IsNotFound(err) {
			return FinancingPartnerResponse{}, fmt.Errorf("%w: financing partner", ErrNotFound)
		}
		return FinancingPartnerResponse{}, fmt.Errorf("failed to load financing partner: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return FinancingPartnerResponse{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		partner.Name = *req.Name
	}
	if req.PartnerType != nil {
		if !validFinancingPartnerTypes[*req.PartnerType] {
			return FinancingPartnerResponse{}, fmt.Errorf("%w: partner_type must be one of: BANK, COOPERATIVE, OTHER", ErrValidation)
		}
		partner.PartnerType = *req.PartnerType
	}
	if req.ContactEmail != nil {
		if err := validateContactEmail(*req.ContactEmail); err != nil {
			return FinancingPartnerResponse{}, err
		}
		partner.ContactEmail = *req.ContactEmail
	}
	if req.ContactName != nil {
		partner.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		partner.ContactPhone = *req.ContactPhone
	}
	if req.Website != nil {
		partner.Website = *req.Website
	}
	if req.Services != nil {
		partner.Services = *req.Services
	}
	if req.Notes != nil {
		partner.Notes = *req.Notes
	}
	if req.Priority != nil {
		partner.Priority = *req.Priority
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}

	var units []model.BusinessUnit
	if req.BusinessUnitIDs != nil {
		if units, err = s.loadBusinessUnits(ctx, *req.BusinessUnitIDs); err != nil {
			return FinancingPartnerResponse{}, err
		}
	}

	// Run update + business unit replacement in a transaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partnerRepo.Update(txCtx, partner); err != nil {
			if repository.IsDuplicateKeyErr(err) {
				return fmt.Errorf("%w: financing partner", ErrConflict)
			}
			return fmt.Errorf("failed to update financing partner: %w", err)
		}
		if req.BusinessUnitIDs != nil {
			if err := s.partnerRepo.ReplaceBusinessUnits(txCtx, partner, units); err != nil {
				return fmt.Errorf("failed to replace business units: %w", err)
			}
			partner.BusinessUnits = units
		}
		return nil
	})
	if err != nil {
		return FinancingPartnerResponse{}, err
	}

	return toFinancingPartnerResponse(*partner), nil
}

func (s *financingPartnerService) DeletePartner(ctx context.Context, id string) error {
	uid, err := parseID(id, "partner ID")
	if err != nil {
		return err
	}
	return s.partnerRepo.Delete(ctx, uid)
}

func (s *financingPartnerService) GetPartners(ctx context.Context, actor Actor, filter FinancingPartnerFilter) ([]FinancingPartnerResponse, int64, error) {
	buID, err := optionalID(filter.BusinessUnitID, "business_unit_id")
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() && actor.BusinessUnitID != nil {
		buID = actor.BusinessUnitID
	}

	partners, total, err := s.partnerRepo.List(ctx, repository.FinancingPartnerFilter{
		PartnerType:    filter.PartnerType,
		BusinessUnitID: buID,
		Search:         filter.Search,
		ActiveOnly:     !actor.IsAdmin(),
		Page:           filter.Page,
		Limit:          filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch financing partners: %w", err)
	}

	res := make([]FinancingPartnerResponse, 0, len(partners))
	for _, p := range partners {
		res = append(res, toFinancingPartnerResponse(p))
	}
	return res, total, nil
}

// --- Response mappers ---

func toFinancingPartnerResponse(p model.FinancingPartner) FinancingPartnerResponse {
	units := make([]BusinessUnitRef, 0, len(p.BusinessUnits))
	for _, bu := range p.BusinessUnits {
		units = append(units, BusinessUnitRef{ID: bu.ID, Name: bu.Name, Code: bu.Code})
	}

	return FinancingPartnerResponse{
		ID:            p.ID,
		Name:          p.Name,
		PartnerType:   p.PartnerType,
		BusinessUnits: units,
		ContactName:   p.ContactName,
		ContactEmail:  p.ContactEmail,
		ContactPhone:  p.ContactPhone,
		Website:       p.Website,
		Services:      p.Services,
		Notes:         p.Notes,
		IsActive:      p.IsActive,
		Priority:      p.Priority,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
