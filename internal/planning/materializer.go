package planning

import (
	"sort"
	"time"

	"github.com/formaplan/formaplan-api/internal/models"
)

// MaterializeInput is the snapshot the weekly plan generator runs over. All
// collections are pre-fetched in bulk; the generator never goes back to the
// store. Absences must already be reduced to validated records.
type MaterializeInput struct {
	WeekDates   []time.Time
	Trainers    []models.Trainer
	Trainees    []models.Trainee
	Templates   []models.TemplateEntry
	Absences    []models.Absence
	Suspensions []models.Suspension
	History     []models.LocationFrequency
}

// PlanCell is one generated placement: a location on a day and slot with the
// people expected there. LocationIndex is zero-based and scoped to the day,
// so the UI can lay out columns per day independently.
type PlanCell struct {
	Date          time.Time      `json:"date"`
	Weekday       models.Weekday `json:"weekday"`
	Slot          models.Slot    `json:"slot"`
	LocationID    string         `json:"location_id"`
	LocationIndex int            `json:"location_index"`
	TrainerIDs    []string       `json:"trainer_ids"`
	TraineeIDs    []string       `json:"trainee_ids"`
}

// WeekPlan is the draft produced by MaterializeWeek.
type WeekPlan struct {
	Cells []PlanCell `json:"cells"`
}

// MaterializeWeek seeds a draft week from the standing templates. Coordinator
// assignments are deliberately not consulted: the draft restarts from the
// template, not from last week's overrides. Likewise only `available`
// template rows seed the draft; exceptional availability is left for the
// coordinator to place by hand. Trainers absent on a day/slot are suppressed
// entirely. The function is deterministic: identical input yields an
// identical plan, including location indices.
func MaterializeWeek(in MaterializeInput) WeekPlan {
	absencesByTrainer := make(map[string][]models.Absence)
	for _, a := range in.Absences {
		absencesByTrainer[a.TrainerID] = append(absencesByTrainer[a.TrainerID], a)
	}

	plan := WeekPlan{}
	for _, date := range in.WeekDates {
		weekday, ok := models.WeekdayOf(date)
		if !ok {
			continue
		}

		dayIndices := map[string]int{}
		type cellKey struct {
			slot     models.Slot
			location string
		}
		cells := map[cellKey]*PlanCell{}
		var order []cellKey

		place := func(slot models.Slot, locationID, trainerID, traineeID string) {
			if _, seen := dayIndices[locationID]; !seen {
				dayIndices[locationID] = len(dayIndices)
			}
			key := cellKey{slot: slot, location: locationID}
			cell, seen := cells[key]
			if !seen {
				cell = &PlanCell{
					Date:          date,
					Weekday:       weekday,
					Slot:          slot,
					LocationID:    locationID,
					LocationIndex: dayIndices[locationID],
				}
				cells[key] = cell
				order = append(order, key)
			}
			if trainerID != "" {
				cell.TrainerIDs = append(cell.TrainerIDs, trainerID)
			}
			if traineeID != "" {
				cell.TraineeIDs = append(cell.TraineeIDs, traineeID)
			}
		}

		for _, slot := range models.Slots() {
			for _, trainer := range in.Trainers {
				if trainer.Archived {
					continue
				}
				locationID, ok := trainerSeedLocation(in, trainer, absencesByTrainer[trainer.ID], date, weekday, slot)
				if !ok {
					continue
				}
				place(slot, locationID, trainer.ID, "")
			}
			for _, trainee := range in.Trainees {
				locationID, ok := traineeSeedLocation(in, trainee, date, weekday, slot)
				if !ok {
					continue
				}
				place(slot, locationID, "", trainee.ID)
			}
		}

		// Cleanup pass: a cell with nobody in it must not survive.
		for _, key := range order {
			cell := cells[key]
			if len(cell.TrainerIDs) == 0 && len(cell.TraineeIDs) == 0 {
				continue
			}
			plan.Cells = append(plan.Cells, *cell)
		}
	}

	sort.SliceStable(plan.Cells, func(i, j int) bool {
		a, b := plan.Cells[i], plan.Cells[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Slot != b.Slot {
			return a.Slot == models.SlotMorning
		}
		return a.LocationIndex < b.LocationIndex
	})
	return plan
}

// trainerSeedLocation decides whether a trainer seeds the draft for the cell
// and, if so, where. Returns false for absent, exceptionally available,
// templateless or unlocatable trainers.
func trainerSeedLocation(in MaterializeInput, trainer models.Trainer, absences []models.Absence, date time.Time, weekday models.Weekday, slot models.Slot) (string, bool) {
	day := Classify(absences, date, slot)
	if day.ExceptionallyAvailable || day.Absent {
		return "", false
	}

	entry := pickTemplateEntry(in.Templates, models.OwnerTrainer, trainer.ID, weekday, slot)
	if entry == nil {
		return "", false
	}

	if entry.LocationID != nil {
		return *entry.LocationID, true
	}
	if trainer.PreferredLocationID != nil {
		return *trainer.PreferredLocationID, true
	}
	if loc := topHistoricalLocation(in.History, trainer.ID, weekday, slot); loc != "" {
		return loc, true
	}
	return "", false
}

// traineeSeedLocation requires an active enrollment window, no suspension
// covering the date, and an explicit location on the trainee's own template.
// There is no location fallback for trainees.
func traineeSeedLocation(in MaterializeInput, trainee models.Trainee, date time.Time, weekday models.Weekday, slot models.Slot) (string, bool) {
	if trainee.Archived || !InRange(date, trainee.EnrollmentStart, trainee.EnrollmentEnd) {
		return "", false
	}
	for _, s := range in.Suspensions {
		if s.TraineeID == trainee.ID && InRange(date, s.StartDate, s.EndDate) {
			return "", false
		}
	}

	entry := pickTemplateEntry(in.Templates, models.OwnerTrainee, trainee.ID, weekday, slot)
	if entry == nil || entry.LocationID == nil {
		return "", false
	}
	return *entry.LocationID, true
}

// topHistoricalLocation returns the location most frequently used by the
// trainer for that weekday and slot. Ties resolve to the first entry reaching
// the maximum count in iteration order.
func topHistoricalLocation(history []models.LocationFrequency, trainerID string, weekday models.Weekday, slot models.Slot) string {
	best := ""
	bestCount := 0
	for _, f := range history {
		if f.TrainerID != trainerID || f.Weekday != weekday || f.Slot != slot {
			continue
		}
		if f.Count > bestCount {
			best = f.LocationID
			bestCount = f.Count
		}
	}
	return best
}
