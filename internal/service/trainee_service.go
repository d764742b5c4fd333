package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type traineeRepository interface {
	List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainee, error)
	Create(ctx context.Context, trainee *models.Trainee) error
	Update(ctx context.Context, trainee *models.Trainee) error
	Archive(ctx context.Context, id string) error
	CreateSuspension(ctx context.Context, suspension *models.Suspension) error
}

// TraineeUpsertRequest is the payload for creating or updating a trainee.
type TraineeUpsertRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	EnrollmentStart string `json:"enrollment_start" validate:"required"`
	EnrollmentEnd   string `json:"enrollment_end" validate:"required"`
}

// SuspensionRequest excludes a trainee from scheduling over a date range.
type SuspensionRequest struct {
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	Reason    *string `json:"reason,omitempty"`
}

// TraineeService manages trainee enrollment and suspensions.
type TraineeService struct {
	repo      traineeRepository
	plans     planInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTraineeService constructs a TraineeService.
func NewTraineeService(repo traineeRepository, plans planInvalidator, validate *validator.Validate, logger *zap.Logger) *TraineeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TraineeService{repo: repo, plans: plans, validator: validate, logger: logger}
}

// List returns trainees matching the filter with pagination metadata.
func (s *TraineeService) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, *models.Pagination, error) {
	trainees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return trainees, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one trainee by ID.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.Trainee, error) {
	trainee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}
	return trainee, nil
}

// Create enrolls a new trainee.
func (s *TraineeService) Create(ctx context.Context, req TraineeUpsertRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	start, end, err := parseDateRange(req.EnrollmentStart, req.EnrollmentEnd)
	if err != nil {
		return nil, err
	}

	trainee := &models.Trainee{
		FullName:        req.FullName,
		Email:           req.Email,
		EnrollmentStart: start,
		EnrollmentEnd:   end,
	}
	if err := s.repo.Create(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainee")
	}
	return trainee, nil
}

// Update modifies an existing trainee.
func (s *TraineeService) Update(ctx context.Context, id string, req TraineeUpsertRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	start, end, err := parseDateRange(req.EnrollmentStart, req.EnrollmentEnd)
	if err != nil {
		return nil, err
	}

	trainee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	trainee.FullName = req.FullName
	trainee.Email = req.Email
	trainee.EnrollmentStart = start
	trainee.EnrollmentEnd = end

	if err := s.repo.Update(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainee")
	}
	s.invalidate(ctx)
	return trainee, nil
}

// Archive soft-deletes a trainee.
func (s *TraineeService) Archive(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive trainee")
	}
	s.invalidate(ctx)
	return nil
}

// Suspend excludes a trainee from scheduling over the given range. Used both
// for formal suspensions and for individual day-offs.
func (s *TraineeService) Suspend(ctx context.Context, traineeID string, req SuspensionRequest) (*models.Suspension, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suspension payload")
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, traineeID); err != nil {
		return nil, err
	}

	suspension := &models.Suspension{
		TraineeID: traineeID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.repo.CreateSuspension(ctx, suspension); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create suspension")
	}
	s.invalidate(ctx)
	return suspension, nil
}

func (s *TraineeService) invalidate(ctx context.Context) {
	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
}

// parseDateRange parses an inclusive start/end pair and rejects inverted
// ranges. Single-day ranges use equal bounds.
func parseDateRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := planning.ParseDate(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := planning.ParseDate(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	return start, end, nil
}
