package models

import (
	"time"

	"github.com/lib/pq"
)

// Assignment is one coordinator placement cell ("planning hebdomadaire"):
// the trainers and trainees placed into a location for a specific date and
// slot. One row exists per (date, slot, location). Past rows double as the
// placement history consulted for location-frequency fallbacks.
type Assignment struct {
	ID         string         `db:"id" json:"id"`
	Date       time.Time      `db:"date" json:"date"`
	Weekday    Weekday        `db:"weekday" json:"weekday"`
	Slot       Slot           `db:"slot" json:"slot"`
	LocationID string         `db:"location_id" json:"location_id"`
	TrainerIDs pq.StringArray `db:"trainer_ids" json:"trainer_ids"`
	TraineeIDs pq.StringArray `db:"trainee_ids" json:"trainee_ids"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// LocationFrequency counts past placements of one trainer at a location for
// a given weekday and slot.
type LocationFrequency struct {
	TrainerID  string `db:"trainer_id" json:"trainer_id"`
	Weekday    Weekday `db:"weekday" json:"weekday"`
	Slot       Slot   `db:"slot" json:"slot"`
	LocationID string `db:"location_id" json:"location_id"`
	Count      int    `db:"count" json:"count"`
}
