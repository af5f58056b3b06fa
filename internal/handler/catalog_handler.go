package handler

import (
	"net/http"

	"salescrm/internal/middleware"
	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the admin-only configuration surface: business units, products,
// tiers, sales reps, compensation plans and their per-tier rules.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/business-units", h.ListBusinessUnits)
		admin.POST("/business-units", h.CreateBusinessUnit)

		admin.GET("/products", h.ListProducts)
		admin.POST("/products", h.CreateProduct)

		admin.GET("/tiers", h.ListTiers)
		admin.POST("/tiers", h.CreateTier)

		admin.GET("/sales-reps", h.ListSalesReps)
		admin.POST("/sales-reps", h.CreateSalesRep)
		admin.PUT("/sales-reps/:id/tier", h.AssignTier)

		admin.GET("/plans", h.ListPlans)
		admin.POST("/plans", h.CreatePlan)
		admin.GET("/plans/:id/rules", h.ListPlanTierRules)

		admin.POST("/plan-tier-rules", h.CreatePlanTierRule)
		admin.PUT("/plan-tier-rules/:id", h.UpdatePlanTierRule)
	}
}

// @Summary      List business units
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.BusinessUnit}
// @Router       /api/admin/business-units [get]
func (h *CatalogHandler) ListBusinessUnits(c *gin.Context) {
	units, err := h.catalogService.ListBusinessUnits(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// @Summary      Create business unit
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBusinessUnitRequest  true  "Business unit"
// @Success      201  {object}  response.Response{data=model.BusinessUnit}
// @Failure      409  {object}  response.Response
// @Router       /api/admin/business-units [post]
func (h *CatalogHandler) CreateBusinessUnit(c *gin.Context) {
	var req service.CreateBusinessUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	unit, err := h.catalogService.CreateBusinessUnit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// @Summary      List products
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        business_unit_id  query  string  false  "Filter by business unit"
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Router       /api/admin/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), c.Query("business_unit_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// @Summary      Create product
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateProductRequest  true  "Product"
// @Success      201  {object}  response.Response{data=model.Product}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// @Summary      List tiers
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Tier}
// @Router       /api/admin/tiers [get]
func (h *CatalogHandler) ListTiers(c *gin.Context) {
	tiers, err := h.catalogService.ListTiers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tiers))
}

// @Summary      Create tier
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTierRequest  true  "Tier"
// @Success      201  {object}  response.Response{data=model.Tier}
// @Failure      409  {object}  response.Response
// @Router       /api/admin/tiers [post]
func (h *CatalogHandler) CreateTier(c *gin.Context) {
	var req service.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tier, err := h.catalogService.CreateTier(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tier))
}

// @Summary      List sales reps
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        business_unit_id  query  string  false  "Filter by business unit"
// @Success      200  {object}  response.Response{data=[]model.SalesRep}
// @Router       /api/admin/sales-reps [get]
func (h *CatalogHandler) ListSalesReps(c *gin.Context) {
	reps, err := h.catalogService.ListSalesReps(c.Request.Context(), c.Query("business_unit_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reps))
}

// @Summary      Create sales rep
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateSalesRepRequest  true  "Sales rep profile"
// @Success      201  {object}  response.Response{data=model.SalesRep}
// @Failure      409  {object}  response.Response
// @Router       /api/admin/sales-reps [post]
func (h *CatalogHandler) CreateSalesRep(c *gin.Context) {
	var req service.CreateSalesRepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rep, err := h.catalogService.CreateSalesRep(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rep))
}

// AssignTier sets or clears a sales rep's tier
// @Summary      Assign tier
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Sales rep ID"
// @Param        payload  body  service.AssignTierRequest  true  "Tier (null to clear)"
// @Success      200  {object}  response.Response{data=model.SalesRep}
// @Failure      404  {object}  response.Response
// @Router       /api/admin/sales-reps/{id}/tier [put]
func (h *CatalogHandler) AssignTier(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.AssignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rep, err := h.catalogService.AssignTier(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rep))
}

// @Summary      List compensation plans
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        product_id  query  string  false  "Filter by product"
// @Success      200  {object}  response.Response{data=[]model.CompensationPlan}
// @Router       /api/admin/plans [get]
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	plans, err := h.catalogService.ListPlans(c.Request.Context(), c.Query("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, plans))
}

// @Summary      Create compensation plan
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePlanRequest  true  "Plan"
// @Success      201  {object}  response.Response{data=model.CompensationPlan}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/plans [post]
func (h *CatalogHandler) CreatePlan(c *gin.Context) {
	var req service.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	plan, err := h.catalogService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, plan))
}

// @Summary      List a plan's tier rules
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Plan ID"
// @Success      200  {object}  response.Response{data=[]model.PlanTierRule}
// @Router       /api/admin/plans/{id}/rules [get]
func (h *CatalogHandler) ListPlanTierRules(c *gin.Context) {
	rules, err := h.catalogService.ListPlanTierRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// @Summary      Create plan tier rule
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.PlanTierRuleRequest  true  "Rates for one plan and tier"
// @Success      201  {object}  response.Response{data=model.PlanTierRule}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/admin/plan-tier-rules [post]
func (h *CatalogHandler) CreatePlanTierRule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.PlanTierRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rule, err := h.catalogService.CreatePlanTierRule(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// UpdatePlanTierRule changes rates. Compensation already recorded keeps its values.
// @Summary      Update plan tier rule
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Rule ID"
// @Param        payload  body  service.PlanTierRuleRequest  true  "New rates"
// @Success      200  {object}  response.Response{data=model.PlanTierRule}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/plan-tier-rules/{id} [put]
func (h *CatalogHandler) UpdatePlanTierRule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.PlanTierRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rule, err := h.catalogService.UpdatePlanTierRule(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}
