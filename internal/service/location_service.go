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

type locationRepository interface {
	List(ctx context.Context, includeArchived bool) ([]models.Location, error)
	FindByID(ctx context.Context, id string) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Update(ctx context.Context, location *models.Location) error
	Archive(ctx context.Context, id string) error
}

// LocationUpsertRequest is the payload for creating or updating a location.
type LocationUpsertRequest struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code" validate:"required"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// LocationService manages the location reference data.
type LocationService struct {
	repo      locationRepository
	plans     planInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLocationService constructs a LocationService.
func NewLocationService(repo locationRepository, plans planInvalidator, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LocationService{repo: repo, plans: plans, validator: validate, logger: logger}
}

// List returns locations, optionally including archived ones.
func (s *LocationService) List(ctx context.Context, includeArchived bool) ([]models.Location, error) {
	locations, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list locations")
	}
	return locations, nil
}

// Get fetches one location by ID.
func (s *LocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load location")
	}
	return location, nil
}

// Create registers a new location.
func (s *LocationService) Create(ctx context.Context, req LocationUpsertRequest) (*models.Location, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}

	location := &models.Location{Name: req.Name, Code: req.Code, Color: req.Color}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create location")
	}
	return location, nil
}

// Update modifies an existing location.
func (s *LocationService) Update(ctx context.Context, id string, req LocationUpsertRequest) (*models.Location, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}

	location, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	location.Name = req.Name
	location.Code = req.Code
	location.Color = req.Color

	if err := s.repo.Update(ctx, location); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update location")
	}
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
	return location, nil
}

// Archive soft-deletes a location. Templates and past placements keep
// referencing it.
func (s *LocationService) Archive(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive location")
	}
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
	return nil
}
