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

type LeadHandler struct {
	leadService service.LeadService
}

func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func (h *LeadHandler) RegisterRoutes(router *gin.RouterGroup) {
	leads := router.Group("/api/leads")
	leads.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		leads.GET("", h.ListLeads)
		leads.POST("", h.CreateLead)
		leads.PATCH("/:id/assign", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.AssignLead)
	}
}

// @Summary      List leads
// @Description  ADMIN sees every lead, MANAGER the unit's leads and SALES_REP the leads assigned to them
// @Tags         leads
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int     false  "Page number (default: 1)"
// @Param        limit       query  int     false  "Items per page (default: 20)"
// @Param        source      query  string  false  "Exact lead source"
// @Param        unassigned  query  bool    false  "Only leads without a sales rep"
// @Success      200  {object}  response.Response{data=[]model.Lead}
// @Router       /api/leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	leads, total, err := h.leadService.ListLeads(c.Request.Context(), actor, service.LeadListFilter{
		Source:     c.Query("source"),
		Unassigned: c.Query("unassigned") == "true",
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, leads, p.Page, p.Limit, total))
}

// @Summary      Capture a lead
// @Tags         leads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateLeadRequest  true  "Lead"
// @Success      201  {object}  response.Response{data=model.Lead}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	lead, err := h.leadService.CreateLead(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, lead))
}

// @Summary      Assign a lead to a sales rep
// @Tags         leads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Lead ID"
// @Param        payload  body  service.AssignLeadRequest  true  "Sales rep"
// @Success      200  {object}  response.Response{data=model.Lead}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/leads/{id}/assign [patch]
func (h *LeadHandler) AssignLead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	lead, err := h.leadService.AssignLead(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, lead))
}
