package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/service"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/response"
)

// TemplateHandler wires weekly schedule templates to HTTP routes.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler constructs a new TemplateHandler.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List godoc
// @Summary List template entries
// @Tags Templates
// @Produce json
// @Param owner_type query string false "Owner type (trainer/trainee)"
// @Param owner_id query string false "Owner ID"
// @Param weekday query string false "Weekday (monday..friday)"
// @Param slot query string false "Slot (morning/afternoon)"
// @Param validated query bool false "Filter by validation state"
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	var filter models.TemplateFilter
	if ownerType := c.Query("owner_type"); ownerType != "" {
		filter.OwnerType = models.TemplateOwner(ownerType)
	}
	if ownerID := c.Query("owner_id"); ownerID != "" {
		filter.OwnerID = ownerID
	}
	if weekday := c.Query("weekday"); weekday != "" {
		value := models.Weekday(weekday)
		filter.Weekday = &value
	}
	if slot := c.Query("slot"); slot != "" {
		value := models.Slot(slot)
		filter.Slot = &value
	}
	if validated := c.Query("validated"); validated != "" {
		value := strings.EqualFold(validated, "true")
		filter.Validated = &value
	}

	entries, err := h.templates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Create template entry
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body service.TemplateEntryRequest true "Template entry payload"
// @Success 201 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.TemplateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	entry, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update template entry
// @Description Updating resets the entry to unvalidated; it needs re-approval
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.TemplateEntryRequest true "Template entry payload"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.TemplateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	entry, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Validate godoc
// @Summary Validate template entry
// @Description Marks the entry as approved so resolution starts using it
// @Tags Templates
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id}/validate [post]
func (h *TemplateHandler) Validate(c *gin.Context) {
	entry, err := h.templates.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete template entry
// @Tags Templates
// @Param id path string true "Entry ID"
// @Success 204
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Duplicates godoc
// @Summary List duplicate template entries
// @Description Validated entries colliding on the same owner, weekday and slot
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates/duplicates [get]
func (h *TemplateHandler) Duplicates(c *gin.Context) {
	duplicates, err := h.templates.Duplicates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, duplicates, nil)
}
