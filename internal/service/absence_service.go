package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type absenceRepository interface {
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, int, error)
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	UpdateStatus(ctx context.Context, id string, status models.AbsenceStatus) error
}

// AbsenceRequest is the payload for declaring an absence or an exceptional
// availability. Single-day records use equal start and end dates.
type AbsenceRequest struct {
	TrainerID string             `json:"trainer_id" validate:"required"`
	Kind      models.AbsenceKind `json:"kind" validate:"required,oneof=personal exceptional_availability"`
	StartDate string             `json:"start_date" validate:"required"`
	EndDate   string             `json:"end_date" validate:"required"`
	Slot      *models.Slot       `json:"slot,omitempty"`
	Reason    *string            `json:"reason,omitempty"`
}

// AbsenceService manages the absence lifecycle: self-service declarations
// enter as pending and only admin validation makes them count.
type AbsenceService struct {
	repo      absenceRepository
	plans     planInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(repo absenceRepository, plans planInvalidator, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AbsenceService{repo: repo, plans: plans, validator: validate, logger: logger}
}

// List returns absences matching the filter with pagination metadata.
func (s *AbsenceService) List(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, *models.Pagination, error) {
	absences, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return absences, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one absence by ID.
func (s *AbsenceService) Get(ctx context.Context, id string) (*models.Absence, error) {
	absence, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}
	return absence, nil
}

// Declare records a new pending absence. It does not affect resolution until
// validated.
func (s *AbsenceService) Declare(ctx context.Context, req AbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	if req.Slot != nil && !req.Slot.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot")
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	absence := &models.Absence{
		TrainerID: req.TrainerID,
		Kind:      req.Kind,
		Status:    models.AbsencePending,
		StartDate: start,
		EndDate:   end,
		Slot:      req.Slot,
		Reason:    req.Reason,
	}
	if err := s.repo.Create(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create absence")
	}
	return absence, nil
}

// Validate approves a pending absence, making it authoritative for
// resolution. Approving an already validated record is a no-op; a cancelled
// record cannot come back.
func (s *AbsenceService) Validate(ctx context.Context, id string) (*models.Absence, error) {
	return s.transition(ctx, id, models.AbsenceValidated)
}

// Cancel withdraws a pending or validated absence.
func (s *AbsenceService) Cancel(ctx context.Context, id string) (*models.Absence, error) {
	return s.transition(ctx, id, models.AbsenceCancelled)
}

func (s *AbsenceService) transition(ctx context.Context, id string, target models.AbsenceStatus) (*models.Absence, error) {
	absence, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if absence.Status == target {
		return absence, nil
	}
	if absence.Status == models.AbsenceCancelled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "a cancelled absence cannot change state")
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update absence status")
	}
	absence.Status = target
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
	return absence, nil
}
