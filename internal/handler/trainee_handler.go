package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// TraineeHandler wires trainee enrollment to HTTP routes.
type TraineeHandler struct {
	trainees *service.TraineeService
}

// NewTraineeHandler constructs a new TraineeHandler.
func NewTraineeHandler(trainees *service.TraineeService) *TraineeHandler {
	return &TraineeHandler{trainees: trainees}
}

// List godoc
// @Summary List trainees
// @Tags Trainees
// @Produce json
// @Param search query string false "Search by name or email"
// @Param archived query bool false "Filter by archived status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainees [get]
func (h *TraineeHandler) List(c *gin.Context) {
	filter := models.TraineeFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if archived := c.Query("archived"); archived != "" {
		switch strings.ToLower(archived) {
		case "true":
			val := true
			filter.Archived = &val
		case "false":
			val := false
			filter.Archived = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	trainees, pagination, err := h.trainees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainees, pagination)
}

// Get godoc
// @Summary Get trainee detail
// @Tags Trainees
// @Produce json
// @Param id path string true "Trainee ID"
// @Success 200 {object} response.Envelope
// @Router /trainees/{id} [get]
func (h *TraineeHandler) Get(c *gin.Context) {
	trainee, err := h.trainees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Create godoc
// @Summary Create trainee
// @Tags Trainees
// @Accept json
// @Produce json
// @Param payload body service.TraineeUpsertRequest true "Trainee payload"
// @Success 201 {object} response.Envelope
// @Router /trainees [post]
func (h *TraineeHandler) Create(c *gin.Context) {
	var req service.TraineeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trainee payload"))
		return
	}
	trainee, err := h.trainees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainee)
}

// Update godoc
// @Summary Update trainee
// @Tags Trainees
// @Accept json
// @Produce json
// @Param id path string true "Trainee ID"
// @Param payload body service.TraineeUpsertRequest true "Trainee payload"
// @Success 200 {object} response.Envelope
// @Router /trainees/{id} [put]
func (h *TraineeHandler) Update(c *gin.Context) {
	var req service.TraineeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid trainee payload"))
		return
	}
	trainee, err := h.trainees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainee, nil)
}

// Archive godoc
// @Summary Archive trainee
// @Tags Trainees
// @Param id path string true "Trainee ID"
// @Success 204
// @Router /trainees/{id} [delete]
func (h *TraineeHandler) Archive(c *gin.Context) {
	if err := h.trainees.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Suspend godoc
// @Summary Suspend trainee
// @Description Excludes the trainee from scheduling over a date range (suspension or day off)
// @Tags Trainees
// @Accept json
// @Produce json
// @Param id path string true "Trainee ID"
// @Param payload body service.SuspensionRequest true "Suspension payload"
// @Success 201 {object} response.Envelope
// @Router /trainees/{id}/suspensions [post]
func (h *TraineeHandler) Suspend(c *gin.Context) {
	var req service.SuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid suspension payload"))
		return
	}
	suspension, err := h.trainees.Suspend(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, suspension)
}
