package models

import "time"

// AbsenceKind distinguishes personal absences from exceptional availability.
type AbsenceKind string

const (
	AbsencePersonal    AbsenceKind = "personal"
	AbsenceExceptional AbsenceKind = "exceptional_availability"
)

// AbsenceStatus is the lifecycle state of an absence record.
type AbsenceStatus string

const (
	AbsencePending   AbsenceStatus = "pending"
	AbsenceValidated AbsenceStatus = "validated"
	AbsenceCancelled AbsenceStatus = "cancelled"
)

// Absence is an availability exception for a trainer: either a personal
// absence or an exceptional availability. It covers an inclusive date range;
// single-day records use equal start and end dates. When Slot is set the
// record applies to that half-day only, otherwise to the whole day.
type Absence struct {
	ID        string        `db:"id" json:"id"`
	TrainerID string        `db:"trainer_id" json:"trainer_id"`
	Kind      AbsenceKind   `db:"kind" json:"kind"`
	Status    AbsenceStatus `db:"status" json:"status"`
	StartDate time.Time     `db:"start_date" json:"start_date"`
	EndDate   time.Time     `db:"end_date" json:"end_date"`
	Slot      *Slot         `db:"slot" json:"slot,omitempty"`
	Reason    *string       `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// AbsenceFilter scopes absence listing queries.
type AbsenceFilter struct {
	TrainerID string
	Kind      *AbsenceKind
	Status    *AbsenceStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
