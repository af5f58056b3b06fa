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

type RewardHandler struct {
	rewardService service.RewardService
}

func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

func (h *RewardHandler) RegisterRoutes(router *gin.RouterGroup) {
	rewards := router.Group("/api/rewards")
	rewards.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		rewards.GET("/points", h.GetPointsSummary)
		rewards.GET("/prizes", h.ListPrizes)
		rewards.POST("/prizes", middleware.RequireRole(model.RoleAdmin), h.CreatePrize)
		rewards.GET("/redemptions", h.ListRedemptions)
		rewards.POST("/redemptions", h.RequestRedemption)
		rewards.PATCH("/redemptions/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdateRedemptionStatus)
	}
}

// GetPointsSummary returns earned, spent and available points for a sales rep
// @Summary      Points balance
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        sales_rep_id  query  string  false  "Sales rep (defaults to the caller)"
// @Success      200  {object}  response.Response{data=service.PointsSummary}
// @Failure      403  {object}  response.Response
// @Router       /api/rewards/points [get]
func (h *RewardHandler) GetPointsSummary(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	summary, err := h.rewardService.GetPointsSummary(c.Request.Context(), actor, c.Query("sales_rep_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// @Summary      List prizes
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        business_unit_id  query  string  false  "Business unit (admins only; others see their own)"
// @Success      200  {object}  response.Response{data=[]model.Prize}
// @Router       /api/rewards/prizes [get]
func (h *RewardHandler) ListPrizes(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	prizes, err := h.rewardService.ListPrizes(c.Request.Context(), actor, c.Query("business_unit_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, prizes))
}

// @Summary      Create prize
// @Tags         rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePrizeRequest  true  "Prize"
// @Success      201  {object}  response.Response{data=model.Prize}
// @Failure      400  {object}  response.Response
// @Router       /api/rewards/prizes [post]
func (h *RewardHandler) CreatePrize(c *gin.Context) {
	var req service.CreatePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prize, err := h.rewardService.CreatePrize(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, prize))
}

// @Summary      List redemptions
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default: 1)"
// @Param        limit   query  int     false  "Items per page (default: 20)"
// @Param        status  query  string  false  "REQUESTED, APPROVED, REJECTED, FULFILLED"
// @Success      200  {object}  response.Response{data=[]service.RedemptionResponse}
// @Router       /api/rewards/redemptions [get]
func (h *RewardHandler) ListRedemptions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	items, total, err := h.rewardService.ListRedemptions(c.Request.Context(), actor, c.Query("status"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, p.Page, p.Limit, total))
}

// RequestRedemption spends points on a prize
// @Summary      Request redemption
// @Tags         rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RedemptionRequest  true  "Redemption"
// @Success      201  {object}  response.Response{data=service.RedemptionResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rewards/redemptions [post]
func (h *RewardHandler) RequestRedemption(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.RedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	redemption, err := h.rewardService.RequestRedemption(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, redemption))
}

// @Summary      Update redemption status
// @Tags         rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Redemption ID"
// @Param        payload  body  service.UpdateRedemptionRequest  true  "New status"
// @Success      200  {object}  response.Response{data=service.RedemptionResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/rewards/redemptions/{id}/status [patch]
func (h *RewardHandler) UpdateRedemptionStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.UpdateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	redemption, err := h.rewardService.UpdateRedemptionStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, redemption))
}
