package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type autofillTraineeLister interface {
	ListEnrolled(ctx context.Context, from, to time.Time) ([]models.Trainee, error)
	ListSuspensions(ctx context.Context, from, to time.Time) ([]models.Suspension, error)
}

type autofillAssignmentStore interface {
	LocationFrequencies(ctx context.Context, before time.Time) ([]models.LocationFrequency, error)
	ReplaceWeek(ctx context.Context, from, to time.Time, assignments []models.Assignment) error
}

// AutofillService seeds a draft week of coordinator placements from the
// standing templates. The draft replaces any existing placements for the
// target week in one transaction; rerunning against unchanged inputs leaves
// identical rows behind.
type AutofillService struct {
	trainers    scheduleTrainerLister
	trainees    autofillTraineeLister
	templates   scheduleTemplateLister
	absences    scheduleAbsenceLister
	assignments autofillAssignmentStore
	plans       planInvalidator
	logger      *zap.Logger
}

// NewAutofillService constructs an AutofillService.
func NewAutofillService(trainers scheduleTrainerLister, trainees autofillTraineeLister, templates scheduleTemplateLister, absences scheduleAbsenceLister, assignments autofillAssignmentStore, plans planInvalidator, logger *zap.Logger) *AutofillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutofillService{
		trainers:    trainers,
		trainees:    trainees,
		templates:   templates,
		absences:    absences,
		assignments: assignments,
		plans:       plans,
		logger:      logger,
	}
}

// GenerateNextWeek materializes and persists a draft for the week after the
// one containing now.
func (s *AutofillService) GenerateNextWeek(ctx context.Context, now time.Time) (*planning.WeekPlan, error) {
	return s.Generate(ctx, WeekStartOf(now).AddDate(0, 0, 7))
}

// Generate materializes a draft for the week containing the given date and
// persists it as coordinator placements. Returns the generated plan.
func (s *AutofillService) Generate(ctx context.Context, date time.Time) (*planning.WeekPlan, error) {
	weekStart := WeekStartOf(date)
	weekEnd := weekStart.AddDate(0, 0, 4)

	trainers, err := s.trainers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer roster")
	}
	trainees, err := s.trainees.ListEnrolled(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee roster")
	}
	suspensions, err := s.trainees.ListSuspensions(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suspensions")
	}
	templates, err := s.templates.ListAllValidated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates")
	}
	absences, err := s.absences.ListOverlapping(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	history, err := s.assignments.LocationFrequencies(ctx, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placement history")
	}

	plan := planning.MaterializeWeek(planning.MaterializeInput{
		WeekDates:   WeekDates(weekStart),
		Trainers:    trainers,
		Trainees:    trainees,
		Templates:   templates,
		Absences:    planning.Authoritative(absences),
		Suspensions: suspensions,
		History:     history,
	})

	rows := make([]models.Assignment, 0, len(plan.Cells))
	for _, cell := range plan.Cells {
		rows = append(rows, models.Assignment{
			Date:       cell.Date,
			Weekday:    cell.Weekday,
			Slot:       cell.Slot,
			LocationID: cell.LocationID,
			TrainerIDs: cell.TrainerIDs,
			TraineeIDs: cell.TraineeIDs,
		})
	}

	if err := s.assignments.ReplaceWeek(ctx, weekStart, weekEnd, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated week")
	}

	if s.plans != nil {
		s.plans.InvalidateWeeks(ctx)
	}
	s.logger.Info("week autofill generated",
		zap.String("week_start", weekStart.Format(planning.DateLayout)),
		zap.Int("cells", len(plan.Cells)),
	)
	return &plan, nil
}
