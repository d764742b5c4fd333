package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// AttendanceHandler wires presence declarations and sheet exports to HTTP
// routes.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs a new AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Declare godoc
// @Summary Declare presence
// @Description Records presence for a trainer slot. Declarations conflicting with a validated absence are rejected; softer mismatches are stored with a warning.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.PresenceRequest true "Presence payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Declare(c *gin.Context) {
	var req service.PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid presence payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleTrainer {
		if claims.TrainerID == nil || req.TrainerID != *claims.TrainerID {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "trainers can only declare their own presence"))
			return
		}
	}

	declaration, err := h.attendance.Declare(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, declaration, nil)
}

// Declarations godoc
// @Summary List presence declarations for a day
// @Tags Attendance
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Declarations(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}

	declarations, err := h.attendance.Declarations(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, declarations, nil)
}

// Sheet godoc
// @Summary Download the attendance sheet
// @Description Renders the day's attendance sheet as a PDF (with signature column) or CSV download
// @Tags Attendance
// @Produce application/pdf
// @Produce text/csv
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "Format (pdf/csv), defaults to pdf"
// @Success 200 {file} binary
// @Router /attendance/sheet [get]
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.SheetFormat(c.DefaultQuery("format", string(service.SheetPDF)))

	content, filename, err := h.attendance.Sheet(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "application/pdf"
	if format == service.SheetCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}
