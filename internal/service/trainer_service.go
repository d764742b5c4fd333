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

type trainerRepository interface {
	List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error)
	ListActive(ctx context.Context) ([]models.Trainer, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	Archive(ctx context.Context, id string) error
}

// planInvalidator drops cached schedule views after a write that can change
// them. A nil invalidator means no cache is in play.
type planInvalidator interface {
	InvalidateWeeks(ctx context.Context)
}

// TrainerUpsertRequest is the payload for creating or updating a trainer.
type TrainerUpsertRequest struct {
	FullName            string  `json:"full_name" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	Phone               *string `json:"phone,omitempty"`
	PreferredLocationID *string `json:"preferred_location_id,omitempty"`
	Office              bool    `json:"office"`
}

// TrainerService manages the trainer roster.
type TrainerService struct {
	repo      trainerRepository
	plans     planInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(repo trainerRepository, plans planInvalidator, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TrainerService{repo: repo, plans: plans, validator: validate, logger: logger}
}

// List returns trainers matching the filter with pagination metadata.
func (s *TrainerService) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, *models.Pagination, error) {
	trainers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return trainers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one trainer by ID.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// Create registers a new trainer. Email must be unique across the roster.
func (s *TrainerService) Create(ctx context.Context, req TrainerUpsertRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainer email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a trainer with this email already exists")
	}

	trainer := &models.Trainer{
		FullName:            req.FullName,
		Email:               req.Email,
		Phone:               req.Phone,
		PreferredLocationID: req.PreferredLocationID,
		Office:              req.Office,
	}
	if err := s.repo.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainer")
	}
	return trainer, nil
}

// Update modifies an existing trainer.
func (s *TrainerService) Update(ctx context.Context, id string, req TrainerUpsertRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check trainer email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a trainer with this email already exists")
	}

	trainer.FullName = req.FullName
	trainer.Email = req.Email
	trainer.Phone = req.Phone
	trainer.PreferredLocationID = req.PreferredLocationID
	trainer.Office = req.Office

	if err := s.repo.Update(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainer")
	}
	s.invalidate(ctx)
	return trainer, nil
}

// Archive soft-deletes a trainer. Historic absences and placements keep
// referencing the record.
func (s *TrainerService) Archive(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive trainer")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TrainerService) invalidate(ctx context.Context) {
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
}
