package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type GenerateFinancialReportRequest struct {
	Title          string    `json:"title" binding:"required"`
	BusinessUnitID string    `json:"business_unit_id"` // ADMIN only; empty covers every unit
	PeriodStart    time.Time `json:"period_start" binding:"required"`
	PeriodEnd      time.Time `json:"period_end" binding:"required"`
	Notes          string    `json:"notes"`
}

// --- Interface ---

// FinancialReportService stores point-in-time compensation snapshots. Later sales do not
// change a report once generated.
type FinancialReportService interface {
	GenerateReport(ctx context.Context, actor Actor, req GenerateFinancialReportRequest) (model.FinancialReport, error)
	GetReport(ctx context.Context, actor Actor, id string) (model.FinancialReport, error)
	ListReports(ctx context.Context, actor Actor, page, limit int) ([]model.FinancialReport, int64, error)
}

// --- Implementation ---

type financialReportService struct {
	reportRepo    repository.FinancialReportRepository
	dashboardRepo repository.DashboardRepository
	catalogRepo   repository.CatalogRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewFinancialReportService(
	reportRepo repository.FinancialReportRepository,
	dashboardRepo repository.DashboardRepository,
	catalogRepo repository.CatalogRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) FinancialReportService {
	return &financialReportService{
		reportRepo:    reportRepo,
		dashboardRepo: dashboardRepo,
		catalogRepo:   catalogRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

func (s *financialReportService) GenerateReport(ctx context.Context, actor Actor, req GenerateFinancialReportRequest) (model.FinancialReport, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.FinancialReport{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > 120 {
		return model.FinancialReport{}, fmt.Errorf("%w: title must be at most 120 characters", ErrValidation)
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return model.FinancialReport{}, fmt.Errorf("%w: period_end is before period_start", ErrValidation)
	}

	unitID, err := s.reportUnit(ctx, actor, req.BusinessUnitID)
	if err != nil {
		return model.FinancialReport{}, err
	}

	rows, err := s.dashboardRepo.CommissionSummary(ctx, repository.Scope{BusinessUnitID: unitID}, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return model.FinancialReport{}, fmt.Errorf("failed to summarize commissions: %w", err)
	}
	payload, err := json.Marshal(summarize(rows))
	if err != nil {
		return model.FinancialReport{}, fmt.Errorf("failed to encode report: %w", err)
	}

	report := model.FinancialReport{
		BusinessUnitID: unitID,
		Title:          title,
		PeriodStart:    req.PeriodStart.UTC(),
		PeriodEnd:      req.PeriodEnd.UTC(),
		Payload:        payload,
		Notes:          req.Notes,
		GeneratedBy:    actor.userRef(),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.reportRepo.Create(txCtx, &report); err != nil {
			return fmt.Errorf("failed to store financial report: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor.userRef(), model.ActionGenerateFinancialReport, report.ID.String(), "FinancialReport", map[string]interface{}{
			"title":            report.Title,
			"business_unit_id": report.BusinessUnitID,
			"period_start":     report.PeriodStart,
			"period_end":       report.PeriodEnd,
		})
	})
	if err != nil {
		return model.FinancialReport{}, err
	}
	return report, nil
}

func (s *financialReportService) GetReport(ctx context.Context, actor Actor, id string) (model.FinancialReport, error) {
	if err := requireReportRole(actor); err != nil {
		return model.FinancialReport{}, err
	}
	reportID, err := parseID(id, "report ID")
	if err != nil {
		return model.FinancialReport{}, err
	}
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if repository.IsNotFound(err) {
			return model.FinancialReport{}, fmt.Errorf("%w: financial report", ErrNotFound)
		}
		return model.FinancialReport{}, fmt.Errorf("failed to load financial report: %w", err)
	}
	// Managers only see reports filed under their own unit; all-unit reports are ADMIN only.
	if !actor.IsAdmin() && (report.BusinessUnitID == nil || *report.BusinessUnitID != *actor.BusinessUnitID) {
		return model.FinancialReport{}, fmt.Errorf("%w: financial report", ErrNotFound)
	}
	return *report, nil
}

func (s *financialReportService) ListReports(ctx context.Context, actor Actor, page, limit int) ([]model.FinancialReport, int64, error) {
	if err := requireReportRole(actor); err != nil {
		return nil, 0, err
	}
	var unitID *uuid.UUID
	if !actor.IsAdmin() {
		unitID = actor.BusinessUnitID
	}
	reports, total, err := s.reportRepo.List(ctx, unitID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch financial reports: %w", err)
	}
	return reports, total, nil
}

func (s *financialReportService) reportUnit(ctx context.Context, actor Actor, raw string) (*uuid.UUID, error) {
	if err := requireReportRole(actor); err != nil {
		return nil, err
	}
	unitID, err := optionalID(raw, "business_unit_id")
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if unitID != nil && *unitID != *actor.BusinessUnitID {
			return nil, fmt.Errorf("%w: report belongs to another business unit", ErrForbidden)
		}
		return actor.BusinessUnitID, nil
	}
	if unitID == nil {
		return nil, nil
	}
	if _, err := s.catalogRepo.FindBusinessUnit(ctx, *unitID); err != nil {
		return nil, referenceErr("business unit", err)
	}
	return unitID, nil
}

// requireReportRole admits ADMIN and MANAGERs that belong to a unit.
func requireReportRole(actor Actor) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.Role == model.RoleManager && actor.BusinessUnitID != nil:
		return nil
	}
	return fmt.Errorf("%w: financial reports are limited to admins and unit managers", ErrForbidden)
}

func summarize(rows []model.CommissionSummaryRow) model.FinancialReportPayload {
	out := model.FinancialReportPayload{
		CommissionAmount: decimal.Zero,
		BonusAmount:      decimal.Zero,
		TotalAmount:      decimal.Zero,
		SalesReps:        make([]model.CommissionSummaryRow, 0, len(rows)),
	}
	for _, r := range rows {
		r.CommissionAmount = money.RoundHalfUp(r.CommissionAmount)
		r.BonusAmount = money.RoundHalfUp(r.BonusAmount)
		r.TotalAmount = money.RoundHalfUp(r.TotalAmount)

		out.Sales += r.Sales
		out.CommissionAmount = out.CommissionAmount.Add(r.CommissionAmount)
		out.BonusAmount = out.BonusAmount.Add(r.BonusAmount)
		out.TotalAmount = out.TotalAmount.Add(r.TotalAmount)
		out.SalesReps = append(out.SalesReps, r)
	}
	return out
}
