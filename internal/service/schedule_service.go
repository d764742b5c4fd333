package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/dto"
	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

const (
	weekCachePrefix      = "formaplan:schedule:week:"
	dashboardCachePrefix = "formaplan:dashboard:"
)

type scheduleTrainerLister interface {
	ListActive(ctx context.Context) ([]models.Trainer, error)
}

type scheduleTemplateLister interface {
	ListAllValidated(ctx context.Context) ([]models.TemplateEntry, error)
}

type scheduleAbsenceLister interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Absence, error)
}

type scheduleAssignmentLister interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Assignment, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CandidateFilter narrows the candidate listing for a day and slot.
type CandidateFilter string

const (
	CandidatesAll         CandidateFilter = "all"
	CandidatesAvailable   CandidateFilter = "available"
	CandidatesExceptional CandidateFilter = "exceptional"
)

// ScheduleServiceConfig tunes week-view caching.
type ScheduleServiceConfig struct {
	WeekCacheTTL time.Duration
}

// ScheduleService renders the weekly trainer schedule. One snapshot of
// trainers, templates, absences and assignments is fetched per week and the
// resolver runs over it cell by cell. A failed snapshot fetch for anything
// but the roster degrades the affected cells to not_scheduled instead of
// failing the whole view.
type ScheduleService struct {
	trainers    scheduleTrainerLister
	templates   scheduleTemplateLister
	absences    scheduleAbsenceLister
	assignments scheduleAssignmentLister
	cache       scheduleCache
	logger      *zap.Logger
	cfg         ScheduleServiceConfig
}

// NewScheduleService constructs a ScheduleService. A nil cache disables
// week-view caching.
func NewScheduleService(trainers scheduleTrainerLister, templates scheduleTemplateLister, absences scheduleAbsenceLister, assignments scheduleAssignmentLister, cache scheduleCache, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeekCacheTTL <= 0 {
		cfg.WeekCacheTTL = 5 * time.Minute
	}
	return &ScheduleService{
		trainers:    trainers,
		templates:   templates,
		absences:    absences,
		assignments: assignments,
		cache:       cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// WeekStartOf normalizes any date onto the Monday of its week.
func WeekStartOf(date time.Time) time.Time {
	d := planning.StartOfDay(date)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekDates lists the Monday-to-Friday dates of the week containing the
// given date.
func WeekDates(date time.Time) []time.Time {
	start := WeekStartOf(date)
	dates := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// WeekView renders the resolved schedule for the week containing the given
// date. The second return value reports whether the payload came from cache.
func (s *ScheduleService) WeekView(ctx context.Context, date time.Time) (*dto.WeekScheduleView, bool, error) {
	weekStart := WeekStartOf(date)
	key := cacheKeyForWeek(weekStart)

	if s.cache != nil {
		var cached dto.WeekScheduleView
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, true, nil
		}
	}

	view, err := s.buildWeek(ctx, weekStart)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil && !view.Partial {
		if err := s.cache.Set(ctx, key, view, s.cfg.WeekCacheTTL); err != nil {
			s.logger.Warn("failed to cache week view", zap.Error(err))
		}
	}
	return view, false, nil
}

func (s *ScheduleService) buildWeek(ctx context.Context, weekStart time.Time) (*dto.WeekScheduleView, error) {
	weekEnd := weekStart.AddDate(0, 0, 4)

	trainers, err := s.trainers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer roster")
	}

	snap, partial := s.snapshot(ctx, weekStart, weekEnd)

	view := &dto.WeekScheduleView{
		WeekStart: weekStart.Format(planning.DateLayout),
		Partial:   partial,
	}

	for _, date := range WeekDates(weekStart) {
		weekday, ok := models.WeekdayOf(date)
		if !ok {
			continue
		}
		day := dto.DayScheduleView{Date: date.Format(planning.DateLayout), Weekday: weekday}
		for _, trainer := range trainers {
			day.Morning = append(day.Morning, s.resolveCell(snap, trainer, date, models.SlotMorning))
			day.Afternoon = append(day.Afternoon, s.resolveCell(snap, trainer, date, models.SlotAfternoon))
		}
		view.Days = append(view.Days, day)
	}
	return view, nil
}

type weekSnapshot struct {
	templates   []models.TemplateEntry
	absences    map[string][]models.Absence
	assignments map[string][]models.Assignment
}

// snapshot pre-fetches reference data for the week. Each failing fetch is
// logged and replaced by an empty collection; the returned flag marks the
// view partial.
func (s *ScheduleService) snapshot(ctx context.Context, from, to time.Time) (weekSnapshot, bool) {
	partial := false

	templates, err := s.templates.ListAllValidated(ctx)
	if err != nil {
		s.logger.Warn("failed to load templates for week view", zap.Error(err))
		partial = true
	}

	absencesByTrainer := map[string][]models.Absence{}
	absences, err := s.absences.ListOverlapping(ctx, from, to)
	if err != nil {
		s.logger.Warn("failed to load absences for week view", zap.Error(err))
		partial = true
	} else {
		for _, a := range planning.Authoritative(absences) {
			absencesByTrainer[a.TrainerID] = append(absencesByTrainer[a.TrainerID], a)
		}
	}

	assignmentsByDate := map[string][]models.Assignment{}
	assignments, err := s.assignments.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Warn("failed to load assignments for week view", zap.Error(err))
		partial = true
	} else {
		for _, a := range assignments {
			k := a.Date.Format(planning.DateLayout)
			assignmentsByDate[k] = append(assignmentsByDate[k], a)
		}
	}

	return weekSnapshot{
		templates:   templates,
		absences:    absencesByTrainer,
		assignments: assignmentsByDate,
	}, partial
}

func (s *ScheduleService) resolveCell(snap weekSnapshot, trainer models.Trainer, date time.Time, slot models.Slot) dto.TrainerSlotView {
	res := planning.Resolve(planning.ResolveInput{
		TrainerID:   trainer.ID,
		Date:        date,
		Slot:        slot,
		Templates:   snap.templates,
		Absences:    snap.absences[trainer.ID],
		Assignments: snap.assignments[date.Format(planning.DateLayout)],
	})
	return dto.TrainerSlotView{
		TrainerID:  trainer.ID,
		FullName:   trainer.FullName,
		Status:     res.Status,
		LocationID: res.LocationID,
	}
}

// ResolveSlot resolves a single trainer's effective status for one date and
// slot against fresh data. Used by the attendance consistency guard.
func (s *ScheduleService) ResolveSlot(ctx context.Context, trainerID string, date time.Time, slot models.Slot) (planning.Resolution, error) {
	templates, err := s.templates.ListAllValidated(ctx)
	if err != nil {
		return planning.Resolution{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates")
	}
	absences, err := s.absences.ListOverlapping(ctx, date, date)
	if err != nil {
		return planning.Resolution{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	assignments, err := s.assignments.ListByDateRange(ctx, date, date)
	if err != nil {
		return planning.Resolution{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	var own []models.Absence
	for _, a := range planning.Authoritative(absences) {
		if a.TrainerID == trainerID {
			own = append(own, a)
		}
	}

	return planning.Resolve(planning.ResolveInput{
		TrainerID:   trainerID,
		Date:        date,
		Slot:        slot,
		Templates:   templates,
		Absences:    own,
		Assignments: assignments,
	}), nil
}

// Candidates lists trainers for a day and slot filtered by resolved status.
// Trainers without any template entry still appear when an absence or an
// exceptional availability gives them a status for the day.
func (s *ScheduleService) Candidates(ctx context.Context, date time.Time, slot models.Slot, filter CandidateFilter) ([]dto.CandidateView, error) {
	trainers, err := s.trainers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer roster")
	}

	snap, partial := s.snapshot(ctx, date, date)
	if partial {
		s.logger.Warn("candidate listing built from partial snapshot", zap.String("date", date.Format(planning.DateLayout)))
	}

	var out []dto.CandidateView
	for _, trainer := range trainers {
		cell := s.resolveCell(snap, trainer, date, slot)
		switch filter {
		case CandidatesAvailable:
			if cell.Status != planning.StatusAvailable && cell.Status != planning.StatusExceptional {
				continue
			}
		case CandidatesExceptional:
			if cell.Status != planning.StatusExceptional {
				continue
			}
		}
		out = append(out, dto.CandidateView(cell))
	}
	return out, nil
}

// InvalidateWeeks drops every cached week view and dashboard payload. Called
// after any write that can change a schedule.
func (s *ScheduleService) InvalidateWeeks(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{weekCachePrefix + "*", dashboardCachePrefix + "*"} {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("failed to invalidate cached views", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func cacheKeyForWeek(weekStart time.Time) string {
	return fmt.Sprintf("%s%s", weekCachePrefix, weekStart.Format(planning.DateLayout))
}
