package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(planning.DateLayout, raw)
	require.NoError(t, err)
	return parsed
}

func ptr(s string) *string { return &s }

type stubTrainers struct {
	trainers []models.Trainer
	err      error
}

func (s *stubTrainers) ListActive(context.Context) ([]models.Trainer, error) {
	return s.trainers, s.err
}

type stubTemplates struct {
	entries []models.TemplateEntry
	err     error
}

func (s *stubTemplates) ListAllValidated(context.Context) ([]models.TemplateEntry, error) {
	return s.entries, s.err
}

type stubAbsences struct {
	absences []models.Absence
	err      error
}

func (s *stubAbsences) ListOverlapping(context.Context, time.Time, time.Time) ([]models.Absence, error) {
	return s.absences, s.err
}

type stubAssignments struct {
	assignments []models.Assignment
	err         error
}

func (s *stubAssignments) ListByDateRange(context.Context, time.Time, time.Time) ([]models.Assignment, error) {
	return s.assignments, s.err
}

type stubCache struct {
	store   map[string][]byte
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{store: map[string][]byte{}}
}

func (s *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.store[key]
	if !ok {
		return assert.AnError
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func (s *stubCache) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	for k := range s.store {
		delete(s.store, k)
	}
	return nil
}

func templateFor(owner models.TemplateOwner, ownerID string, weekday models.Weekday, slot models.Slot, locationID *string) models.TemplateEntry {
	return models.TemplateEntry{
		ID:         ownerID + "-" + string(weekday) + "-" + string(slot),
		OwnerType:  owner,
		OwnerID:    ownerID,
		Weekday:    weekday,
		Slot:       slot,
		Status:     models.TemplateAvailable,
		LocationID: locationID,
		Validated:  true,
	}
}

func TestScheduleServiceWeekViewResolvesStatuses(t *testing.T) {
	monday := date(t, "2025-09-01")

	trainers := &stubTrainers{trainers: []models.Trainer{
		{ID: "t1", FullName: "Ada"},
		{ID: "t2", FullName: "Ben"},
	}}
	templates := &stubTemplates{entries: []models.TemplateEntry{
		templateFor(models.OwnerTrainer, "t1", models.Monday, models.SlotMorning, ptr("loc1")),
		templateFor(models.OwnerTrainer, "t2", models.Monday, models.SlotMorning, nil),
	}}
	absences := &stubAbsences{absences: []models.Absence{
		{
			ID:        "abs1",
			TrainerID: "t2",
			Kind:      models.AbsencePersonal,
			Status:    models.AbsenceValidated,
			StartDate: monday,
			EndDate:   monday,
		},
	}}
	assignments := &stubAssignments{assignments: []models.Assignment{
		{Date: monday, Weekday: models.Monday, Slot: models.SlotMorning, LocationID: "loc2", TrainerIDs: []string{"t1"}},
	}}

	svc := NewScheduleService(trainers, templates, absences, assignments, nil, nil, ScheduleServiceConfig{})

	view, cached, err := svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.False(t, view.Partial)
	assert.Equal(t, "2025-09-01", view.WeekStart)
	require.Len(t, view.Days, 5)

	mondayView := view.Days[0]
	require.Len(t, mondayView.Morning, 2)

	assert.Equal(t, planning.StatusAssigned, mondayView.Morning[0].Status)
	require.NotNil(t, mondayView.Morning[0].LocationID)
	assert.Equal(t, "loc2", *mondayView.Morning[0].LocationID)

	assert.Equal(t, planning.StatusAbsent, mondayView.Morning[1].Status)

	// No template on Tuesday for either trainer.
	tuesdayView := view.Days[1]
	assert.Equal(t, planning.StatusNotScheduled, tuesdayView.Morning[0].Status)
}

func TestScheduleServiceWeekViewPendingAbsenceIgnored(t *testing.T) {
	monday := date(t, "2025-09-01")

	trainers := &stubTrainers{trainers: []models.Trainer{{ID: "t1", FullName: "Ada"}}}
	templates := &stubTemplates{entries: []models.TemplateEntry{
		templateFor(models.OwnerTrainer, "t1", models.Monday, models.SlotMorning, nil),
	}}
	absences := &stubAbsences{absences: []models.Absence{
		{
			ID:        "abs1",
			TrainerID: "t1",
			Kind:      models.AbsencePersonal,
			Status:    models.AbsencePending,
			StartDate: monday,
			EndDate:   monday,
		},
	}}

	svc := NewScheduleService(trainers, templates, absences, &stubAssignments{}, nil, nil, ScheduleServiceConfig{})

	view, _, err := svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, planning.StatusAvailable, view.Days[0].Morning[0].Status)
}

func TestScheduleServiceWeekViewCaching(t *testing.T) {
	monday := date(t, "2025-09-01")
	cache := newStubCache()

	trainers := &stubTrainers{trainers: []models.Trainer{{ID: "t1", FullName: "Ada"}}}
	svc := NewScheduleService(trainers, &stubTemplates{}, &stubAbsences{}, &stubAssignments{}, cache, nil, ScheduleServiceConfig{WeekCacheTTL: time.Minute})

	_, cached, err := svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.True(t, cached)

	svc.InvalidateWeeks(context.Background())
	assert.Contains(t, cache.deleted, weekCachePrefix+"*")

	_, cached, err = svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestScheduleServiceWeekViewPartialOnSnapshotFailure(t *testing.T) {
	monday := date(t, "2025-09-01")
	cache := newStubCache()

	trainers := &stubTrainers{trainers: []models.Trainer{{ID: "t1", FullName: "Ada"}}}
	absences := &stubAbsences{err: assert.AnError}
	svc := NewScheduleService(trainers, &stubTemplates{}, absences, &stubAssignments{}, cache, nil, ScheduleServiceConfig{})

	view, cached, err := svc.WeekView(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, view.Partial)
	assert.Equal(t, planning.StatusNotScheduled, view.Days[0].Morning[0].Status)

	// Partial views must not be cached.
	assert.Empty(t, cache.store)
}

func TestScheduleServiceWeekViewRosterFailureIsFatal(t *testing.T) {
	trainers := &stubTrainers{err: assert.AnError}
	svc := NewScheduleService(trainers, &stubTemplates{}, &stubAbsences{}, &stubAssignments{}, nil, nil, ScheduleServiceConfig{})

	_, _, err := svc.WeekView(context.Background(), date(t, "2025-09-01"))
	assert.Error(t, err)
}

func TestScheduleServiceCandidatesIncludesTemplatelessWithStatus(t *testing.T) {
	monday := date(t, "2025-09-01")

	trainers := &stubTrainers{trainers: []models.Trainer{
		{ID: "t1", FullName: "Ada"},
		{ID: "t2", FullName: "Ben"},
		{ID: "t3", FullName: "Cleo"},
	}}
	templates := &stubTemplates{entries: []models.TemplateEntry{
		templateFor(models.OwnerTrainer, "t1", models.Monday, models.SlotMorning, nil),
	}}
	// t2 has no template at all but an approved exceptional availability.
	absences := &stubAbsences{absences: []models.Absence{
		{
			ID:        "exc1",
			TrainerID: "t2",
			Kind:      models.AbsenceExceptional,
			Status:    models.AbsenceValidated,
			StartDate: monday,
			EndDate:   monday,
		},
	}}

	svc := NewScheduleService(trainers, templates, absences, &stubAssignments{}, nil, nil, ScheduleServiceConfig{})

	all, err := svc.Candidates(context.Background(), monday, models.SlotMorning, CandidatesAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := svc.Candidates(context.Background(), monday, models.SlotMorning, CandidatesAvailable)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "t1", available[0].TrainerID)
	assert.Equal(t, "t2", available[1].TrainerID)
	assert.Equal(t, planning.StatusExceptional, available[1].Status)

	exceptional, err := svc.Candidates(context.Background(), monday, models.SlotMorning, CandidatesExceptional)
	require.NoError(t, err)
	require.Len(t, exceptional, 1)
	assert.Equal(t, "t2", exceptional[0].TrainerID)
}

func TestWeekStartOfNormalizesToMonday(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-09-01", "2025-09-01"},
		{"2025-09-03", "2025-09-01"},
		{"2025-09-07", "2025-09-01"},
		{"2025-09-08", "2025-09-08"},
	}
	for _, tc := range cases {
		got := WeekStartOf(date(t, tc.in))
		assert.Equal(t, tc.want, got.Format(planning.DateLayout), "week start of %s", tc.in)
	}

	dates := WeekDates(date(t, "2025-09-04"))
	require.Len(t, dates, 5)
	assert.Equal(t, "2025-09-01", dates[0].Format(planning.DateLayout))
	assert.Equal(t, "2025-09-05", dates[4].Format(planning.DateLayout))
}
