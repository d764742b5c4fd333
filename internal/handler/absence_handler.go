package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	"github.com/formaplan/formaplan-api/internal/service"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// AbsenceHandler wires the absence lifecycle to HTTP routes.
type AbsenceHandler struct {
	absences *service.AbsenceService
}

// NewAbsenceHandler constructs a new AbsenceHandler.
func NewAbsenceHandler(absences *service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absences: absences}
}

// List godoc
// @Summary List absences
// @Tags Absences
// @Produce json
// @Param trainer_id query string false "Filter by trainer"
// @Param kind query string false "Kind (personal/exceptional_availability)"
// @Param status query string false "Status (pending/validated/cancelled)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *AbsenceHandler) List(c *gin.Context) {
	filter := models.AbsenceFilter{TrainerID: c.Query("trainer_id")}
	if kind := c.Query("kind"); kind != "" {
		value := models.AbsenceKind(kind)
		filter.Kind = &value
	}
	if status := c.Query("status"); status != "" {
		value := models.AbsenceStatus(status)
		filter.Status = &value
	}
	if from := c.Query("from"); from != "" {
		parsed, err := planning.ParseDate(from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidDate, "from must be formatted as YYYY-MM-DD"))
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := planning.ParseDate(to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidDate, "to must be formatted as YYYY-MM-DD"))
			return
		}
		filter.To = &parsed
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	absences, pagination, err := h.absences.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absences, pagination)
}

// Get godoc
// @Summary Get absence detail
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id} [get]
func (h *AbsenceHandler) Get(c *gin.Context) {
	absence, err := h.absences.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absence, nil)
}

// Declare godoc
// @Summary Declare absence
// @Description New declarations enter as pending; only admin validation makes them count
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body service.AbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Router /absences [post]
func (h *AbsenceHandler) Declare(c *gin.Context) {
	var req service.AbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}

	// A trainer account can only declare for its own trainer record.
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleTrainer {
		if claims.TrainerID == nil || req.TrainerID != *claims.TrainerID {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "trainers can only declare their own absences"))
			return
		}
	}

	absence, err := h.absences.Declare(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, absence)
}

// Validate godoc
// @Summary Validate absence
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id}/validate [post]
func (h *AbsenceHandler) Validate(c *gin.Context) {
	absence, err := h.absences.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absence, nil)
}

// Cancel godoc
// @Summary Cancel absence
// @Description Cancelled is terminal; a cancelled absence cannot be revalidated
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id}/cancel [post]
func (h *AbsenceHandler) Cancel(c *gin.Context) {
	absence, err := h.absences.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absence, nil)
}
