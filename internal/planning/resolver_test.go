package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
)

func strPtr(s string) *string { return &s }

func templateEntry(id, trainerID string, weekday models.Weekday, slot models.Slot, locationID *string, created time.Time) models.TemplateEntry {
	return models.TemplateEntry{
		ID:         id,
		OwnerType:  models.OwnerTrainer,
		OwnerID:    trainerID,
		Weekday:    weekday,
		Slot:       slot,
		Status:     models.TemplateAvailable,
		LocationID: locationID,
		Validated:  true,
		CreatedAt:  created,
	}
}

func TestResolveExceptionalAvailabilityOverridesEverything(t *testing.T) {
	// Trainer with a Tuesday template AND an approved one-off exception on
	// the same date: the exception wins even over the template.
	date := day(t, "2025-09-02") // a Tuesday
	in := ResolveInput{
		TrainerID: "t1",
		Date:      date,
		Slot:      models.SlotMorning,
		Templates: []models.TemplateEntry{
			templateEntry("tpl1", "t1", models.Tuesday, models.SlotMorning, nil, date.AddDate(-1, 0, 0)),
		},
		Absences: []models.Absence{
			absence("t1", models.AbsenceExceptional, models.AbsenceValidated, date, date),
		},
		Assignments: []models.Assignment{
			{Date: date, Slot: models.SlotMorning, LocationID: "loc1", TrainerIDs: []string{"t1"}},
		},
	}

	got := Resolve(in)
	assert.Equal(t, StatusExceptional, got.Status)
	assert.Nil(t, got.LocationID)
}

func TestResolveAbsenceSuppressesCoordinatorAssignment(t *testing.T) {
	// Coordinator data may be stale relative to an absence approval; the
	// absence must win.
	date := day(t, "2025-09-03")
	in := ResolveInput{
		TrainerID: "t1",
		Date:      date,
		Slot:      models.SlotMorning,
		Absences: []models.Absence{
			absence("t1", models.AbsencePersonal, models.AbsenceValidated, day(t, "2025-08-30"), day(t, "2025-09-10")),
		},
		Assignments: []models.Assignment{
			{Date: date, Slot: models.SlotMorning, LocationID: "loc1", TrainerIDs: []string{"t1"}},
		},
	}

	got := Resolve(in)
	assert.Equal(t, StatusAbsent, got.Status)
}

func TestResolveCoordinatorAssignmentCarriesLocation(t *testing.T) {
	date := day(t, "2025-09-03")
	in := ResolveInput{
		TrainerID: "t1",
		Date:      date,
		Slot:      models.SlotAfternoon,
		Assignments: []models.Assignment{
			{Date: date, Slot: models.SlotMorning, LocationID: "loc-other", TrainerIDs: []string{"t1"}},
			{Date: date, Slot: models.SlotAfternoon, LocationID: "loc1", TrainerIDs: []string{"t2", "t1"}},
		},
	}

	got := Resolve(in)
	assert.Equal(t, StatusAssigned, got.Status)
	require.NotNil(t, got.LocationID)
	assert.Equal(t, "loc1", *got.LocationID)
}

func TestResolveTemplateMarksAvailableUnchosen(t *testing.T) {
	date := day(t, "2025-09-02")
	in := ResolveInput{
		TrainerID: "t1",
		Date:      date,
		Slot:      models.SlotMorning,
		Templates: []models.TemplateEntry{
			templateEntry("tpl1", "t1", models.Tuesday, models.SlotMorning, strPtr("loc2"), date.AddDate(-1, 0, 0)),
		},
	}

	got := Resolve(in)
	assert.Equal(t, StatusAvailable, got.Status)
	require.NotNil(t, got.LocationID)
	assert.Equal(t, "loc2", *got.LocationID)
}

func TestResolveNotScheduledWhenNothingMatches(t *testing.T) {
	got := Resolve(ResolveInput{TrainerID: "t1", Date: day(t, "2025-09-02"), Slot: models.SlotMorning})
	assert.Equal(t, StatusNotScheduled, got.Status)
}

func TestResolveWeekendIsNeverScheduled(t *testing.T) {
	saturday := day(t, "2025-09-06")
	in := ResolveInput{
		TrainerID: "t1",
		Date:      saturday,
		Slot:      models.SlotMorning,
		Assignments: []models.Assignment{
			{Date: saturday, Slot: models.SlotMorning, LocationID: "loc1", TrainerIDs: []string{"t1"}},
		},
	}
	assert.Equal(t, StatusNotScheduled, Resolve(in).Status)
}

func TestResolveIgnoresExceptionalAndUnvalidatedTemplateRows(t *testing.T) {
	date := day(t, "2025-09-02")
	exceptional := templateEntry("tpl1", "t1", models.Tuesday, models.SlotMorning, nil, date)
	exceptional.Status = models.TemplateExceptional
	unvalidated := templateEntry("tpl2", "t1", models.Tuesday, models.SlotMorning, nil, date)
	unvalidated.Validated = false

	in := ResolveInput{
		TrainerID: "t1",
		Date:      date,
		Slot:      models.SlotMorning,
		Templates: []models.TemplateEntry{exceptional, unvalidated},
	}
	assert.Equal(t, StatusNotScheduled, Resolve(in).Status)
}

func TestResolveDuplicateTemplatesPickOldestDeterministically(t *testing.T) {
	date := day(t, "2025-09-02")
	older := templateEntry("tpl-old", "t1", models.Tuesday, models.SlotMorning, strPtr("loc-old"), date.AddDate(-1, 0, 0))
	newer := templateEntry("tpl-new", "t1", models.Tuesday, models.SlotMorning, strPtr("loc-new"), date.AddDate(0, -1, 0))

	for _, entries := range [][]models.TemplateEntry{{older, newer}, {newer, older}} {
		got := Resolve(ResolveInput{TrainerID: "t1", Date: date, Slot: models.SlotMorning, Templates: entries})
		assert.Equal(t, StatusAvailable, got.Status)
		require.NotNil(t, got.LocationID)
		assert.Equal(t, "loc-old", *got.LocationID)
	}
}

func TestResolvePriorityChainOrder(t *testing.T) {
	date := day(t, "2025-09-02")
	tpl := templateEntry("tpl1", "t1", models.Tuesday, models.SlotMorning, strPtr("loc-tpl"), date.AddDate(-1, 0, 0))
	assignment := models.Assignment{Date: date, Slot: models.SlotMorning, LocationID: "loc-assign", TrainerIDs: []string{"t1"}}
	exception := absence("t1", models.AbsenceExceptional, models.AbsenceValidated, date, date)
	personal := absence("t1", models.AbsencePersonal, models.AbsenceValidated, date, date)

	tests := []struct {
		name     string
		absences []models.Absence
		want     SlotStatus
	}{
		{"exception beats absence, assignment and template", []models.Absence{personal, exception}, StatusExceptional},
		{"absence beats assignment and template", []models.Absence{personal}, StatusAbsent},
		{"assignment beats template", nil, StatusAssigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(ResolveInput{
				TrainerID:   "t1",
				Date:        date,
				Slot:        models.SlotMorning,
				Templates:   []models.TemplateEntry{tpl},
				Absences:    tc.absences,
				Assignments: []models.Assignment{assignment},
			})
			assert.Equal(t, tc.want, got.Status)
		})
	}
}
