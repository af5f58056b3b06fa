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

type FinancingPartnerHandler struct {
	partnerService service.FinancingPartnerService
}

func NewFinancingPartnerHandler(partnerService service.FinancingPartnerService) *FinancingPartnerHandler {
	return &FinancingPartnerHandler{partnerService: partnerService}
}

func (h *FinancingPartnerHandler) RegisterRoutes(router *gin.RouterGroup) {
	partners := router.Group("/api/financing-partners")
	{
		partners.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep), h.ListPartners)
		partners.POST("", middleware.RequireRole(model.RoleAdmin), h.CreatePartner)
		partners.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdatePartner)
		partners.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeletePartner)
	}
}

// ListPartners returns paginated financing partners with optional type/unit/search filter
// @Summary      List financing partners
// @Tags         financing-partners
// @Security     BearerAuth
// @Produce      json
// @Param        page              query  int     false  "Page number (default: 1)"
// @Param        limit             query  int     false  "Items per page (default: 20)"
// @Param        type              query  string  false  "Filter by type: BANK, COOPERATIVE, OTHER"
// @Param        business_unit_id  query  string  false  "Filter by business unit (admins only)"
// @Param        search            query  string  false  "Search by name, contact, email"
// @Success      200  {object}  response.Response{data=[]service.FinancingPartnerResponse}
// @Router       /api/financing-partners [get]
func (h *FinancingPartnerHandler) ListPartners(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	partners, total, err := h.partnerService.GetPartners(c.Request.Context(), actor, service.FinancingPartnerFilter{
		PartnerType:    c.Query("type"),
		BusinessUnitID: c.Query("business_unit_id"),
		Search:         c.Query("search"),
		Page:           p.Page,
		Limit:          p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, partners, p.Page, p.Limit, total))
}

// CreatePartner creates a new financing partner
// @Summary      Create financing partner
// @Tags         financing-partners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateFinancingPartnerRequest  true  "Partner payload"
// @Success      201  {object}  response.Response{data=service.FinancingPartnerResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/financing-partners [post]
func (h *FinancingPartnerHandler) CreatePartner(c *gin.Context) {
	var req service.CreateFinancingPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, partner))
}

// UpdatePartner updates an existing financing partner
// @Summary      Update financing partner
// @Tags         financing-partners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                                 true  "Partner ID"
// @Param        payload  body  service.UpdateFinancingPartnerRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.FinancingPartnerResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/financing-partners/{id} [put]
func (h *FinancingPartnerHandler) UpdatePartner(c *gin.Context) {
	var req service.UpdateFinancingPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, partner))
}

// DeletePartner deletes a financing partner (soft delete)
// @Summary      Delete financing partner
// @Tags         financing-partners
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Partner ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/financing-partners/{id} [delete]
func (h *FinancingPartnerHandler) DeletePartner(c *gin.Context) {
	if err := h.partnerService.DeletePartner(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Financing partner deleted successfully"}))
}
