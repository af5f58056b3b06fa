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

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	sales.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		sales.GET("", h.ListSales)
		sales.POST("", h.CreateSale)
		sales.GET("/:id", h.GetSale)
		sales.PUT("/:id", h.UpdateSale)
		sales.PATCH("/:id/status", h.ChangeStatus)
	}
}

// ListSales returns the sales visible to the caller
// @Summary      List sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        page              query  int     false  "Page number (default: 1)"
// @Param        limit             query  int     false  "Items per page (default: 20)"
// @Param        status            query  string  false  "Filter by status: DRAFT, PENDING, CONFIRMED, CANCELLED"
// @Param        business_unit_id  query  string  false  "Filter by business unit (admins only)"
// @Success      200  {object}  response.Response{data=[]service.SaleResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	sales, total, err := h.saleService.ListSales(c.Request.Context(), actor, service.SaleListFilter{
		Status:         c.Query("status"),
		BusinessUnitID: c.Query("business_unit_id"),
		Page:           p.Page,
		Limit:          p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, sales, p.Page, p.Limit, total))
}

// CreateSale records a new sale. Creating it directly as CONFIRMED produces compensation.
// @Summary      Create sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateSaleRequest  true  "Sale payload"
// @Success      201  {object}  response.Response{data=service.SaleDetailResponse}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// GetSale returns one sale with its commission and reward point, if any
// @Summary      Get sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.SaleDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// UpdateSale applies a partial update to a sale
// @Summary      Update sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Sale ID"
// @Param        payload  body  service.UpdateSaleRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=service.SaleDetailResponse}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req service.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// ChangeStatus moves a sale to another status
// @Summary      Change sale status
// @Description  Moving a sale into CONFIRMED creates its commission and reward point in the same transaction.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Sale ID"
// @Param        payload  body  service.ChangeStatusRequest  true  "New status"
// @Success      200  {object}  response.Response{data=service.SaleDetailResponse}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/sales/{id}/status [patch]
func (h *SaleHandler) ChangeStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req service.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.ChangeStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}
