package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/services"
)

const auditPerPage = 50

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) List(c *gin.Context) {
	logs, total, err := h.auditService.List(c.Request.Context(), pageParam(c), auditPerPage)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	render(c, http.StatusOK, "admin/audit", gin.H{
		"Title":      "Log Aktivitas",
		"Logs":       logs,
		"Pagination": newPagination(c, auditPerPage, total),
	})
}

func (h *AuditHandler) ListAPI(c *gin.Context) {
	page := pageParam(c)
	logs, total, err := h.auditService.List(c.Request.Context(), page, auditPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
	})
}
