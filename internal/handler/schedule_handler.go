package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// ScheduleHandler wires the resolved week view and autofill to HTTP routes.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	autofill  *service.AutofillService
}

// NewScheduleHandler constructs a new ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService, autofill *service.AutofillService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, autofill: autofill}
}

// Week godoc
// @Summary Resolved week schedule
// @Description Returns the Monday-to-Friday schedule of the week containing the given date. Partial views mean some source data could not be loaded.
// @Tags Schedule
// @Produce json
// @Param date query string true "Any date of the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/week [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, cached, err := h.schedules.WeekView(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil, map[string]interface{}{"cached": cached})
}

// Candidates godoc
// @Summary Candidate trainers for a slot
// @Description Lists trainers with their resolved status for one day and slot, for coordinator placement
// @Tags Schedule
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param slot query string true "Slot (morning/afternoon)"
// @Param filter query string false "Filter (all/available/exceptional)"
// @Success 200 {object} response.Envelope
// @Router /schedule/candidates [get]
func (h *ScheduleHandler) Candidates(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	slot := models.Slot(c.Query("slot"))
	if !slot.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slot must be morning or afternoon"))
		return
	}
	filter := service.CandidateFilter(c.DefaultQuery("filter", string(service.CandidatesAll)))

	candidates, err := h.schedules.Candidates(c.Request.Context(), date, slot, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Autofill godoc
// @Summary Generate next week's draft schedule
// @Description Seeds the following week's placements from validated templates, skipping absent trainers and suspended trainees
// @Tags Schedule
// @Produce json
// @Param date query string false "Reference date; defaults to today (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/autofill [post]
func (h *ScheduleHandler) Autofill(c *gin.Context) {
	var plan interface{}
	var err error
	if raw := c.Query("date"); raw != "" {
		date, derr := dateQuery(c, "date")
		if derr != nil {
			response.Error(c, derr)
			return
		}
		plan, err = h.autofill.Generate(c.Request.Context(), date)
	} else {
		plan, err = h.autofill.GenerateNextWeek(c.Request.Context(), time.Now().UTC())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}
