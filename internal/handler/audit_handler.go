package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/service"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// AuditHandler exposes the data-quality report and cleanup actions.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs a new AuditHandler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Report godoc
// @Summary Data-quality report
// @Description Duplicate validated template entries and absences whose trainer no longer exists
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) Report(c *gin.Context) {
	report, err := h.audit.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// PurgeOrphans godoc
// @Summary Purge orphan absences
// @Description Deletes absences pointing at unknown trainer IDs and returns the count
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit/orphans [delete]
func (h *AuditHandler) PurgeOrphans(c *gin.Context) {
	count, err := h.audit.PurgeOrphans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"purged": count}, nil)
}
