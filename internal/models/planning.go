package models

import "time"

// Slot is a half-day period.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
)

// Valid returns true when the slot is a supported value.
func (s Slot) Valid() bool {
	return s == SlotMorning || s == SlotAfternoon
}

// Slots lists both half-day periods in display order.
func Slots() []Slot {
	return []Slot{SlotMorning, SlotAfternoon}
}

// Weekday is a working day name, Monday through Friday.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// WorkingDays lists the schedulable weekdays in order.
func WorkingDays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Valid returns true when the weekday is schedulable.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	default:
		return false
	}
}

// WeekdayOf maps a calendar date onto a schedulable weekday. The boolean is
// false on Saturday and Sunday.
func WeekdayOf(date time.Time) (Weekday, bool) {
	switch date.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	default:
		return "", false
	}
}

// TemplateOwner distinguishes trainer and trainee template entries.
type TemplateOwner string

const (
	OwnerTrainer TemplateOwner = "trainer"
	OwnerTrainee TemplateOwner = "trainee"
)

// TemplateStatus is the standing availability kind of a template entry.
type TemplateStatus string

const (
	TemplateAvailable   TemplateStatus = "available"
	TemplateExceptional TemplateStatus = "exceptional"
)

// TemplateEntry is one cell of a standing weekly template ("planning type").
// A consistent dataset holds at most one validated entry per owner, weekday
// and slot; duplicates are a known data-quality defect surfaced by the audit.
type TemplateEntry struct {
	ID         string         `db:"id" json:"id"`
	OwnerType  TemplateOwner  `db:"owner_type" json:"owner_type"`
	OwnerID    string         `db:"owner_id" json:"owner_id"`
	Weekday    Weekday        `db:"weekday" json:"weekday"`
	Slot       Slot           `db:"slot" json:"slot"`
	Status     TemplateStatus `db:"status" json:"status"`
	LocationID *string        `db:"location_id" json:"location_id,omitempty"`
	Validated  bool           `db:"validated" json:"validated"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// TemplateFilter scopes template listing queries.
type TemplateFilter struct {
	OwnerType TemplateOwner
	OwnerID   string
	Weekday   *Weekday
	Slot      *Slot
	Validated *bool
}
