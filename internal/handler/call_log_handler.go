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

type CallLogHandler struct {
	callLogService service.CallLogService
}

func NewCallLogHandler(callLogService service.CallLogService) *CallLogHandler {
	return &CallLogHandler{callLogService: callLogService}
}

func (h *CallLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/api/call-logs")
	logs.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep))
	{
		logs.GET("", h.ListCallLogs)
		logs.POST("", h.CreateCallLog)
	}
}

// @Summary      List call logs
// @Tags         call-logs
// @Security     BearerAuth
// @Produce      json
// @Param        page          query  int     false  "Page number (default: 1)"
// @Param        limit         query  int     false  "Items per page (default: 20)"
// @Param        contact_type  query  string  false  "CALL or EMAIL"
// @Success      200  {object}  response.Response{data=[]model.CallLog}
// @Router       /api/call-logs [get]
func (h *CallLogHandler) ListCallLogs(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	logs, total, err := h.callLogService.ListCallLogs(c.Request.Context(), actor, c.Query("contact_type"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, p.Page, p.Limit, total))
}

// @Summary      Record a customer contact
// @Tags         call-logs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCallLogRequest  true  "Call log"
// @Success      201  {object}  response.Response{data=model.CallLog}
// @Failure      400  {object}  response.Response
// @Router       /api/call-logs [post]
func (h *CallLogHandler) CreateCallLog(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req service.CreateCallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.callLogService.CreateCallLog(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}
