package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type templateRepository interface {
	List(ctx context.Context, filter models.TemplateFilter) ([]models.TemplateEntry, error)
	ListAllValidated(ctx context.Context) ([]models.TemplateEntry, error)
	FindByID(ctx context.Context, id string) (*models.TemplateEntry, error)
	Create(ctx context.Context, entry *models.TemplateEntry) error
	Update(ctx context.Context, entry *models.TemplateEntry) error
	Delete(ctx context.Context, id string) error
}

// TemplateEntryRequest is the payload for creating or updating a template
// entry.
type TemplateEntryRequest struct {
	OwnerType  models.TemplateOwner  `json:"owner_type" validate:"required,oneof=trainer trainee"`
	OwnerID    string                `json:"owner_id" validate:"required"`
	Weekday    models.Weekday        `json:"weekday" validate:"required,oneof=monday tuesday wednesday thursday friday"`
	Slot       models.Slot           `json:"slot" validate:"required,oneof=morning afternoon"`
	Status     models.TemplateStatus `json:"status" validate:"required,oneof=available exceptional"`
	LocationID *string               `json:"location_id,omitempty"`
}

// TemplateService manages standing weekly templates ("planning type").
type TemplateService struct {
	repo      templateRepository
	plans     planInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(repo templateRepository, plans planInvalidator, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TemplateService{repo: repo, plans: plans, validator: validate, logger: logger}
}

// List returns template entries matching the filter, oldest first.
func (s *TemplateService) List(ctx context.Context, filter models.TemplateFilter) ([]models.TemplateEntry, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return entries, nil
}

// Create records a new, not yet validated, template entry. Trainee entries
// must carry an explicit location since there is no fallback for them.
func (s *TemplateService) Create(ctx context.Context, req TemplateEntryRequest) (*models.TemplateEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if req.OwnerType == models.OwnerTrainee && req.LocationID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trainee template entries require a location")
	}

	entry := &models.TemplateEntry{
		OwnerType:  req.OwnerType,
		OwnerID:    req.OwnerID,
		Weekday:    req.Weekday,
		Slot:       req.Slot,
		Status:     req.Status,
		LocationID: req.LocationID,
		Validated:  false,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template entry")
	}
	return entry, nil
}

// Update modifies an existing template entry. Updating resets validation:
// a changed entry has to be re-approved before it participates in
// resolution.
func (s *TemplateService) Update(ctx context.Context, id string, req TemplateEntryRequest) (*models.TemplateEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if req.OwnerType == models.OwnerTrainee && req.LocationID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trainee template entries require a location")
	}

	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Weekday = req.Weekday
	entry.Slot = req.Slot
	entry.Status = req.Status
	entry.LocationID = req.LocationID
	entry.Validated = false

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template entry")
	}
	s.invalidate(ctx)
	return entry, nil
}

// Validate approves a template entry, letting it participate in resolution
// and autofill.
func (s *TemplateService) Validate(ctx context.Context, id string) (*models.TemplateEntry, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Validated {
		return entry, nil
	}

	entry.Validated = true
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate template entry")
	}
	s.invalidate(ctx)
	return entry, nil
}

// Delete removes a template entry, typically one flagged as a duplicate by
// the audit.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template entry")
	}
	s.invalidate(ctx)
	return nil
}

// Duplicates reports validated entries colliding on the same owner, weekday
// and slot. The first listed entry of each group is the one resolution uses.
func (s *TemplateService) Duplicates(ctx context.Context) ([]planning.DuplicateTemplate, error) {
	entries, err := s.repo.ListAllValidated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list validated templates")
	}
	return planning.FindDuplicateTemplates(entries), nil
}

func (s *TemplateService) get(ctx context.Context, id string) (*models.TemplateEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template entry")
	}
	return entry, nil
}

func (s *TemplateService) invalidate(ctx context.Context) {
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
}
