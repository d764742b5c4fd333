package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/dto"
	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type dayScheduler interface {
	Candidates(ctx context.Context, date time.Time, slot models.Slot, filter CandidateFilter) ([]dto.CandidateView, error)
}

// DashboardServiceConfig tunes dashboard caching.
type DashboardServiceConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// DashboardService composes the per-day coordinator overview: status counts
// per slot plus the assignable candidates.
type DashboardService struct {
	schedule dayScheduler
	cache    scheduleCache
	logger   *zap.Logger
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(schedule dayScheduler, cache scheduleCache, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &DashboardService{schedule: schedule, cache: cache, logger: logger, cfg: cfg}
}

// Overview builds the coordinator overview for one day. The second return
// value reports whether the payload came from cache.
func (s *DashboardService) Overview(ctx context.Context, date time.Time) (*dto.DashboardDayView, bool, error) {
	weekday, ok := models.WeekdayOf(date)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "dashboard is only available for working days")
	}

	key := dashboardCachePrefix + date.Format(planning.DateLayout)
	if s.cfg.Enabled && s.cache != nil {
		var cached dto.DashboardDayView
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, true, nil
		}
	}

	view := &dto.DashboardDayView{
		Date:    date.Format(planning.DateLayout),
		Weekday: weekday,
	}

	for _, slot := range models.Slots() {
		candidates, err := s.schedule.Candidates(ctx, date, slot, CandidatesAll)
		if err != nil {
			return nil, false, err
		}

		overview := dto.SlotOverview{
			Slot:   slot,
			Counts: map[planning.SlotStatus]int{},
		}
		for _, c := range candidates {
			overview.Counts[c.Status]++
			if c.Status == planning.StatusAvailable || c.Status == planning.StatusExceptional {
				overview.Candidates = append(overview.Candidates, c)
			}
		}
		view.Slots = append(view.Slots, overview)
	}

	if s.cfg.Enabled && s.cache != nil {
		if err := s.cache.Set(ctx, key, view, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard view", zap.Error(err))
		}
	}
	return view, false, nil
}
