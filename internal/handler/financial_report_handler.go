package handler

import (
	"net/http"

	"salescrm/internal/middleware"
	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/pkg/pagination"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
)

type FinancialReportHandler struct {
	reportService service.FinancialReportService
}

func NewFinancialReportHandler(reportService service.FinancialReportService) *FinancialReportHandler {
	return &FinancialReportHandler{reportService: reportService}
}

func (h *FinancialReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports/financial")
	reports.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		reports.GET("", h.ListReports)
		reports.POST("", h.GenerateReport)
		reports.GET("/:id", h.GetReport)
	}
}

// @Summary      List stored financial reports
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response{data=[]model.FinancialReport}
// @Router       /api/reports/financial [get]
func (h *FinancialReportHandler) ListReports(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	reports, total, err := h.reportService.ListReports(c.Request.Context(), actor, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, reports, p.Page, p.Limit, total))
}

// @Summary      Generate a financial report
// @Description  Snapshots per-rep commission totals for the period and stores them
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.GenerateFinancialReportRequest  true  "Report period"
// @Success      201  {object}  response.Response{data=model.FinancialReport}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/reports/financial [post]
func (h *FinancialReportHandler) GenerateReport(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.GenerateFinancialReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	report, err := h.reportService.GenerateReport(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// @Summary      Get a financial report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.FinancialReport}
// @Failure      404  {object}  response.Response
// @Router       /api/reports/financial/{id} [get]
func (h *FinancialReportHandler) GetReport(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	report, err := h.reportService.GetReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
