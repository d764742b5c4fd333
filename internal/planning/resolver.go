package planning

import (
	"time"

	"github.com/formaplan/formaplan-api/internal/models"
)

// SlotStatus is the single effective status of a trainer for one slot.
type SlotStatus string

const (
	StatusExceptional  SlotStatus = "exceptional_availability"
	StatusAbsent       SlotStatus = "absent"
	StatusAssigned     SlotStatus = "assigned"
	StatusAvailable    SlotStatus = "available"
	StatusNotScheduled SlotStatus = "not_scheduled"
)

// Resolution carries the resolved status plus the location it implies:
// the assignment's location for StatusAssigned, the template's preferred
// location (possibly nil) for StatusAvailable, nil otherwise.
type Resolution struct {
	Status     SlotStatus `json:"status"`
	LocationID *string    `json:"location_id,omitempty"`
}

// ResolveInput bundles the pre-fetched snapshot a resolution runs against.
// All collections are scoped by the caller: Templates and Absences to the
// trainer, Assignments to the date.
type ResolveInput struct {
	TrainerID   string
	Date        time.Time
	Slot        models.Slot
	Templates   []models.TemplateEntry
	Absences    []models.Absence
	Assignments []models.Assignment
}

// Resolve applies the priority chain determining a trainer's effective
// status for one slot. The order is the core business rule and must not be
// reordered:
//
//  1. exceptional availability wins outright, including over an existing
//     coordinator assignment or template entry;
//  2. a validated absence suppresses the slot, including any coordinator
//     assignment recorded before the absence was approved;
//  3. an explicit coordinator assignment;
//  4. the standing weekly template marks the trainer available but unchosen;
//  5. otherwise the trainer has no expected involvement.
//
// Missing or malformed reference data degrades to StatusNotScheduled rather
// than failing the caller's whole view.
func Resolve(in ResolveInput) Resolution {
	weekday, ok := models.WeekdayOf(in.Date)
	if !ok {
		return Resolution{Status: StatusNotScheduled}
	}

	day := Classify(in.Absences, in.Date, in.Slot)
	if day.ExceptionallyAvailable {
		return Resolution{Status: StatusExceptional}
	}
	if day.Absent {
		return Resolution{Status: StatusAbsent}
	}

	for _, a := range in.Assignments {
		if a.Slot != in.Slot || !sameDay(a.Date, in.Date) {
			continue
		}
		for _, id := range a.TrainerIDs {
			if id == in.TrainerID {
				loc := a.LocationID
				return Resolution{Status: StatusAssigned, LocationID: &loc}
			}
		}
	}

	if entry := pickTemplateEntry(in.Templates, models.OwnerTrainer, in.TrainerID, weekday, in.Slot); entry != nil {
		return Resolution{Status: StatusAvailable, LocationID: entry.LocationID}
	}

	return Resolution{Status: StatusNotScheduled}
}

// pickTemplateEntry selects the validated `available` entry for the cell.
// Duplicate validated rows for the same cell are a known inconsistency; the
// oldest one wins so resolution stays deterministic while the audit surfaces
// the defect.
func pickTemplateEntry(entries []models.TemplateEntry, owner models.TemplateOwner, ownerID string, weekday models.Weekday, slot models.Slot) *models.TemplateEntry {
	var picked *models.TemplateEntry
	for i := range entries {
		e := &entries[i]
		if e.OwnerType != owner || e.OwnerID != ownerID {
			continue
		}
		if !e.Validated || e.Status != models.TemplateAvailable {
			continue
		}
		if e.Weekday != weekday || e.Slot != slot {
			continue
		}
		if picked == nil || e.CreatedAt.Before(picked.CreatedAt) {
			picked = e
		}
	}
	return picked
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
