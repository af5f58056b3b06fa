package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCallLogRequest struct {
	SalesRepID     string `json:"sales_rep_id"` // defaults to the caller's own profile
	SaleID         string `json:"sale_id"`
	ContactType    string `json:"contact_type" binding:"required"`
	Subject        string `json:"subject" binding:"required"`
	Notes          string `json:"notes"`
	NextActionDate string `json:"next_action_date"` // YYYY-MM-DD
}

// --- Interface ---

type CallLogService interface {
	CreateCallLog(ctx context.Context, actor Actor, req CreateCallLogRequest) (model.CallLog, error)
	ListCallLogs(ctx context.Context, actor Actor, contactType string, page, limit int) ([]model.CallLog, int64, error)
}

// --- Implementation ---

type callLogService struct {
	callLogRepo  repository.CallLogRepository
	salesRepRepo repository.SalesRepRepository
	saleRepo     repository.SaleRepository
}

func NewCallLogService(callLogRepo repository.CallLogRepository, salesRepRepo repository.SalesRepRepository, saleRepo repository.SaleRepository) CallLogService {
	return &callLogService{callLogRepo: callLogRepo, salesRepRepo: salesRepRepo, saleRepo: saleRepo}
}

func (s *callLogService) CreateCallLog(ctx context.Context, actor Actor, req CreateCallLogRequest) (model.CallLog, error) {
	if req.ContactType != model.ContactTypeCall && req.ContactType != model.ContactTypeEmail {
		return model.CallLog{}, fmt.Errorf("%w: contact_type must be one of: CALL, EMAIL", ErrValidation)
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return model.CallLog{}, fmt.Errorf("%w: subject is required", ErrValidation)
	}

	var repID uuid.UUID
	switch {
	case actor.Role == model.RoleSalesRep:
		if actor.SalesRepID == nil {
			return model.CallLog{}, fmt.Errorf("%w: user has no sales rep profile", ErrForbidden)
		}
		repID = *actor.SalesRepID
	default:
		id, err := parseID(req.SalesRepID, "sales_rep_id")
		if err != nil {
			return model.CallLog{}, err
		}
		repID = id
	}

	rep, err := s.salesRepRepo.FindByID(ctx, repID)
	if err != nil {
		return model.CallLog{}, referenceErr("sales rep", err)
	}
	if !actor.CanAccess(rep.BusinessUnitID, rep.ID) {
		return model.CallLog{}, fmt.Errorf("%w: sales rep belongs to another scope", ErrForbidden)
	}

	entry := model.CallLog{
		SalesRepID:  rep.ID,
		ContactType: req.ContactType,
		Subject:     subject,
		Notes:       req.Notes,
	}

	if req.SaleID != "" {
		saleID, err := parseID(req.SaleID, "sale_id")
		if err != nil {
			return model.CallLog{}, err
		}
		sale, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return model.CallLog{}, referenceErr("sale", err)
		}
		// A contact can only be attached to one of the rep's own sales.
		if sale.SalesRepID != rep.ID {
			return model.CallLog{}, fmt.Errorf("%w: sale does not belong to this sales rep", ErrValidation)
		}
		entry.SaleID = &sale.ID
	}

	if req.NextActionDate != "" {
		day, err := time.Parse("2006-01-02", req.NextActionDate)
		if err != nil {
			return model.CallLog{}, fmt.Errorf("%w: next_action_date must be YYYY-MM-DD", ErrValidation)
		}
		entry.NextActionDate = &day
	}

	if err := s.callLogRepo.Create(ctx, &entry); err != nil {
		return model.CallLog{}, fmt.Errorf("failed to create call log: %w", err)
	}
	return entry, nil
}

func (s *callLogService) ListCallLogs(ctx context.Context, actor Actor, contactType string, page, limit int) ([]model.CallLog, int64, error) {
	scope, err := actor.Scope()
	if err != nil {
		return nil, 0, err
	}
	logs, total, err := s.callLogRepo.List(ctx, scope, contactType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch call logs: %w", err)
	}
	return logs, total, nil
}
