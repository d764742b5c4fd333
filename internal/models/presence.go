package models

import "time"

// PresenceDeclaration is a trainer's self-declared attendance for one slot.
type PresenceDeclaration struct {
	ID        string    `db:"id" json:"id"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	Date      time.Time `db:"date" json:"date"`
	Slot      Slot      `db:"slot" json:"slot"`
	Present   bool      `db:"present" json:"present"`
	Note      *string   `db:"note" json:"note,omitempty"`
	Warning   *string   `db:"warning" json:"warning,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
