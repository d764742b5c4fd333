package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
)

func weekOf(t *testing.T) []time.Time {
	t.Helper()
	return []time.Time{
		day(t, "2025-09-01"), // Monday
		day(t, "2025-09-02"),
		day(t, "2025-09-03"),
		day(t, "2025-09-04"),
		day(t, "2025-09-05"),
	}
}

func baseInput(t *testing.T) MaterializeInput {
	t.Helper()
	created := day(t, "2025-01-01")
	return MaterializeInput{
		WeekDates: weekOf(t),
		Trainers: []models.Trainer{
			{ID: "t1", FullName: "Trainer One"},
			{ID: "t2", FullName: "Trainer Two", PreferredLocationID: strPtr("loc-b")},
		},
		Trainees: []models.Trainee{
			{ID: "a1", FullName: "Trainee One", EnrollmentStart: day(t, "2025-01-06"), EnrollmentEnd: day(t, "2025-12-19")},
		},
		Templates: []models.TemplateEntry{
			templateEntry("tpl-t1-mon", "t1", models.Monday, models.SlotMorning, strPtr("loc-a"), created),
			templateEntry("tpl-t2-mon", "t2", models.Monday, models.SlotMorning, nil, created),
			{
				ID: "tpl-a1-mon", OwnerType: models.OwnerTrainee, OwnerID: "a1",
				Weekday: models.Monday, Slot: models.SlotMorning,
				Status: models.TemplateAvailable, LocationID: strPtr("loc-a"),
				Validated: true, CreatedAt: created,
			},
		},
	}
}

func findCell(plan WeekPlan, weekday models.Weekday, slot models.Slot, locationID string) *PlanCell {
	for i := range plan.Cells {
		c := &plan.Cells[i]
		if c.Weekday == weekday && c.Slot == slot && c.LocationID == locationID {
			return c
		}
	}
	return nil
}

func TestMaterializeWeekSeedsFromTemplates(t *testing.T) {
	plan := MaterializeWeek(baseInput(t))

	cellA := findCell(plan, models.Monday, models.SlotMorning, "loc-a")
	require.NotNil(t, cellA)
	assert.Equal(t, []string{"t1"}, cellA.TrainerIDs)
	assert.Equal(t, []string{"a1"}, cellA.TraineeIDs)

	// t2 has no template location, so the preferred location applies.
	cellB := findCell(plan, models.Monday, models.SlotMorning, "loc-b")
	require.NotNil(t, cellB)
	assert.Equal(t, []string{"t2"}, cellB.TrainerIDs)
}

func TestMaterializeWeekIsIdempotent(t *testing.T) {
	first := MaterializeWeek(baseInput(t))
	second := MaterializeWeek(baseInput(t))
	assert.Equal(t, first, second)
}

func TestMaterializeWeekExcludesAbsentTrainers(t *testing.T) {
	in := baseInput(t)
	in.Absences = []models.Absence{
		absence("t1", models.AbsencePersonal, models.AbsenceValidated, day(t, "2025-09-01"), day(t, "2025-09-01")),
	}

	plan := MaterializeWeek(in)
	for _, cell := range plan.Cells {
		if cell.Weekday == models.Monday {
			assert.NotContains(t, cell.TrainerIDs, "t1")
		}
	}
}

func TestMaterializeWeekLeavesExceptionalAvailabilityToCoordinator(t *testing.T) {
	in := baseInput(t)
	in.Absences = []models.Absence{
		absence("t1", models.AbsenceExceptional, models.AbsenceValidated, day(t, "2025-09-01"), day(t, "2025-09-01")),
	}

	plan := MaterializeWeek(in)
	for _, cell := range plan.Cells {
		if cell.Weekday == models.Monday {
			assert.NotContains(t, cell.TrainerIDs, "t1")
		}
	}
}

func TestMaterializeWeekNoEmptyCells(t *testing.T) {
	plan := MaterializeWeek(baseInput(t))
	for _, cell := range plan.Cells {
		assert.True(t, len(cell.TrainerIDs) > 0 || len(cell.TraineeIDs) > 0)
	}
}

func TestMaterializeWeekFallsBackToHistoricalLocation(t *testing.T) {
	in := baseInput(t)
	in.Trainers = []models.Trainer{{ID: "t3"}}
	in.Templates = []models.TemplateEntry{
		templateEntry("tpl-t3", "t3", models.Tuesday, models.SlotAfternoon, nil, day(t, "2025-01-01")),
	}
	in.History = []models.LocationFrequency{
		{TrainerID: "t3", Weekday: models.Tuesday, Slot: models.SlotAfternoon, LocationID: "loc-x", Count: 3},
		{TrainerID: "t3", Weekday: models.Tuesday, Slot: models.SlotAfternoon, LocationID: "loc-y", Count: 3},
		{TrainerID: "t3", Weekday: models.Tuesday, Slot: models.SlotAfternoon, LocationID: "loc-z", Count: 1},
	}

	plan := MaterializeWeek(in)
	// Ties resolve to the first location reaching the max count.
	cell := findCell(plan, models.Tuesday, models.SlotAfternoon, "loc-x")
	require.NotNil(t, cell)
	assert.Equal(t, []string{"t3"}, cell.TrainerIDs)
}

func TestMaterializeWeekSkipsUnlocatableTrainer(t *testing.T) {
	in := baseInput(t)
	in.Trainers = []models.Trainer{{ID: "t4"}}
	in.Templates = []models.TemplateEntry{
		templateEntry("tpl-t4", "t4", models.Wednesday, models.SlotMorning, nil, day(t, "2025-01-01")),
	}

	plan := MaterializeWeek(in)
	assert.Empty(t, plan.Cells)
}

func TestMaterializeWeekTraineeRules(t *testing.T) {
	created := day(t, "2025-01-01")
	traineeTemplate := func(id, owner string, locationID *string) models.TemplateEntry {
		return models.TemplateEntry{
			ID: id, OwnerType: models.OwnerTrainee, OwnerID: owner,
			Weekday: models.Monday, Slot: models.SlotMorning,
			Status: models.TemplateAvailable, LocationID: locationID,
			Validated: true, CreatedAt: created,
		}
	}

	tests := []struct {
		name     string
		trainee  models.Trainee
		template models.TemplateEntry
		susp     []models.Suspension
		expect   bool
	}{
		{
			name:     "enrolled trainee with explicit location is placed",
			trainee:  models.Trainee{ID: "a2", EnrollmentStart: day(t, "2025-01-06"), EnrollmentEnd: day(t, "2025-12-19")},
			template: traineeTemplate("tpl-a2", "a2", strPtr("loc-a")),
			expect:   true,
		},
		{
			name:     "enrollment ended before the week",
			trainee:  models.Trainee{ID: "a3", EnrollmentStart: day(t, "2024-01-08"), EnrollmentEnd: day(t, "2025-06-27")},
			template: traineeTemplate("tpl-a3", "a3", strPtr("loc-a")),
			expect:   false,
		},
		{
			name:     "suspension covers the day",
			trainee:  models.Trainee{ID: "a4", EnrollmentStart: day(t, "2025-01-06"), EnrollmentEnd: day(t, "2025-12-19")},
			template: traineeTemplate("tpl-a4", "a4", strPtr("loc-a")),
			susp:     []models.Suspension{{TraineeID: "a4", StartDate: day(t, "2025-08-25"), EndDate: day(t, "2025-09-05")}},
			expect:   false,
		},
		{
			name:     "no explicit location means no fallback",
			trainee:  models.Trainee{ID: "a5", EnrollmentStart: day(t, "2025-01-06"), EnrollmentEnd: day(t, "2025-12-19")},
			template: traineeTemplate("tpl-a5", "a5", nil),
			expect:   false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := MaterializeInput{
				WeekDates:   weekOf(t),
				Trainees:    []models.Trainee{tc.trainee},
				Templates:   []models.TemplateEntry{tc.template},
				Suspensions: tc.susp,
			}
			plan := MaterializeWeek(in)
			if tc.expect {
				cell := findCell(plan, models.Monday, models.SlotMorning, "loc-a")
				require.NotNil(t, cell)
				assert.Contains(t, cell.TraineeIDs, tc.trainee.ID)
			} else {
				assert.Empty(t, plan.Cells)
			}
		})
	}
}

func TestMaterializeWeekLocationIndicesArePerDay(t *testing.T) {
	created := day(t, "2025-01-01")
	in := MaterializeInput{
		WeekDates: weekOf(t),
		Trainers:  []models.Trainer{{ID: "t1"}, {ID: "t2"}},
		Templates: []models.TemplateEntry{
			templateEntry("tpl1", "t1", models.Monday, models.SlotMorning, strPtr("loc-a"), created),
			templateEntry("tpl2", "t2", models.Monday, models.SlotMorning, strPtr("loc-b"), created),
			// Tuesday only uses loc-b, which must get index 0 there.
			templateEntry("tpl3", "t2", models.Tuesday, models.SlotMorning, strPtr("loc-b"), created),
		},
	}

	plan := MaterializeWeek(in)

	monB := findCell(plan, models.Monday, models.SlotMorning, "loc-b")
	require.NotNil(t, monB)
	assert.Equal(t, 1, monB.LocationIndex)

	tueB := findCell(plan, models.Tuesday, models.SlotMorning, "loc-b")
	require.NotNil(t, tueB)
	assert.Equal(t, 0, tueB.LocationIndex)
}

func TestMaterializeWeekSkipsArchivedTrainers(t *testing.T) {
	in := baseInput(t)
	in.Trainers[0].Archived = true

	plan := MaterializeWeek(in)
	for _, cell := range plan.Cells {
		assert.NotContains(t, cell.TrainerIDs, "t1")
	}
}
