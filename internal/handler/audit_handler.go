package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapmanager/internal/model"
	"zapmanager/internal/service"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogs godoc
// @Summary Recent audit entries
// @Description Returns the last 100 entries, newest first.
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AuditLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c echo.Context) error {
	entries, err := h.auditService.Recent(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	if entries == nil {
		entries = []model.AuditLog{}
	}
	return c.JSON(http.StatusOK, entries)
}
