package handler

import (
	"fmt"
	"net/http"
	"time"

	"salescrm/internal/middleware"
	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	dashboardService service.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		dashboard.GET("", h.GetOverview)
	}

	reports := router.Group("/api/reports")
	reports.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		reports.GET("/commissions", h.GetCommissionSummary)
		reports.GET("/commissions/trend", h.GetCommissionTrend)
		reports.GET("/commissions/export", h.ExportCommissions)
	}
}

// @Summary      Dashboard overview
// @Description  Sale counts, amounts and compensation totals scoped to the caller's role
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardOverview}
// @Failure      403  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	overview, err := h.dashboardService.GetOverview(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, overview))
}

// @Summary      Commission summary per sales rep
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query  string  false  "Start Date (RFC3339, default: first day of the month)"
// @Param        end_date    query  string  false  "End Date (RFC3339, default: now)"
// @Success      200  {object}  response.Response{data=[]model.CommissionSummaryRow}
// @Failure      400  {object}  response.Response  "Invalid date format"
// @Router       /api/reports/commissions [get]
func (h *DashboardHandler) GetCommissionSummary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	start, end, err := h.period(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	rows, err := h.dashboardService.GetCommissionSummary(c.Request.Context(), actor, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// @Summary      Commission trend
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        group_by    query  string  false  "day (default), week or month"
// @Param        start_date  query  string  false  "Start Date (RFC3339, default: first day of the month)"
// @Param        end_date    query  string  false  "End Date (RFC3339, default: now)"
// @Success      200  {object}  response.Response{data=[]model.CommissionTrendRow}
// @Failure      400  {object}  response.Response  "Invalid date format"
// @Router       /api/reports/commissions/trend [get]
func (h *DashboardHandler) GetCommissionTrend(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	start, end, err := h.period(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	rows, err := h.dashboardService.GetCommissionTrend(c.Request.Context(), actor, c.Query("group_by"), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// @Summary      Export commissions
// @Description  Downloads the commissions calculated in the period as an XLSX workbook
// @Tags         reports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date  query  string  false  "Start Date (RFC3339, default: first day of the month)"
// @Param        end_date    query  string  false  "End Date (RFC3339, default: now)"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response  "Invalid date format"
// @Router       /api/reports/commissions/export [get]
func (h *DashboardHandler) ExportCommissions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	start, end, err := h.period(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	data, err := h.dashboardService.ExportCommissions(c.Request.Context(), actor, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("commissions_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// period reads start_date/end_date, defaulting to the current month so far.
func (h *DashboardHandler) period(c *gin.Context) (time.Time, time.Time, error) {
	now := h.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return start, end, fmt.Errorf("invalid start_date format, expected RFC3339")
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return start, end, fmt.Errorf("invalid end_date format, expected RFC3339")
		}
		end = parsed
	}
	return start, end, nil
}
