package planning

import (
	"time"

	"github.com/formaplan/formaplan-api/internal/models"
)

// DayStatus is the outcome of classifying a trainer's absence records for one
// date and slot. At most one of the two flags is set.
type DayStatus struct {
	ExceptionallyAvailable bool
	Absent                 bool
}

// Authoritative filters absence records down to the validated ones, the only
// records that participate in resolution.
func Authoritative(absences []models.Absence) []models.Absence {
	out := make([]models.Absence, 0, len(absences))
	for _, a := range absences {
		if a.Status == models.AbsenceValidated {
			out = append(out, a)
		}
	}
	return out
}

// Displayable filters absence records to validated and pending ones, used by
// views that preview not-yet-approved requests.
func Displayable(absences []models.Absence) []models.Absence {
	out := make([]models.Absence, 0, len(absences))
	for _, a := range absences {
		if a.Status == models.AbsenceValidated || a.Status == models.AbsencePending {
			out = append(out, a)
		}
	}
	return out
}

// Classify determines whether a trainer is exceptionally available or absent
// on the given date and slot. The input collection must already be filtered
// to the records the caller considers authoritative (see Authoritative);
// batch callers fetch once per trainer and classify many days against the
// same slice.
//
// Exceptional availability is checked before personal absence and
// short-circuits it: an approved one-off override must never be shadowed by
// an overlapping absence row, even when both exist for the same date.
func Classify(absences []models.Absence, date time.Time, slot models.Slot) DayStatus {
	for _, a := range absences {
		if a.Kind == models.AbsenceExceptional && matches(a, date, slot) {
			return DayStatus{ExceptionallyAvailable: true}
		}
	}
	for _, a := range absences {
		if a.Kind == models.AbsencePersonal && matches(a, date, slot) {
			return DayStatus{Absent: true}
		}
	}
	return DayStatus{}
}

// matches reports whether the record covers the date, and the slot when the
// record is pinned to a specific half-day. Overlapping records of the same
// kind are fine; any match suffices.
func matches(a models.Absence, date time.Time, slot models.Slot) bool {
	if !InRange(date, a.StartDate, a.EndDate) {
		return false
	}
	if a.Slot != nil && *a.Slot != slot {
		return false
	}
	return true
}
