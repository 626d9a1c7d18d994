package handler

import (
	"net/http"

	"taxreturn/internal/middleware"
	"taxreturn/internal/model"
	"taxreturn/internal/service"
	"taxreturn/pkg/pagination"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(model.RoleAccountant, model.RoleAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the audit trail, newest first
// @Summary      Get audit logs
// @Description  Lists who changed which filing or review and when.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  false  "Filing or review ID"
// @Param        action     query     string  false  "Action, e.g. UPDATE_FILING"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page{items=[]service.AuditLogResponse}}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), service.AuditLogFilter{
		EntityID: c.Query("entity_id"),
		Action:   c.Query("action"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, logs, total, p.Page, p.Limit))
}
