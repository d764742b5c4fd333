package models

import "time"

// Trainer represents a staff member with a recurring weekly availability
// template. Trainers are archived (soft-deleted), never removed, because
// absences and past placements keep referencing them.
type Trainer struct {
	ID                  string    `db:"id" json:"id"`
	FullName            string    `db:"full_name" json:"full_name"`
	Email               string    `db:"email" json:"email"`
	Phone               *string   `db:"phone" json:"phone,omitempty"`
	PreferredLocationID *string   `db:"preferred_location_id" json:"preferred_location_id,omitempty"`
	Office              bool      `db:"office" json:"office"`
	Archived            bool      `db:"archived" json:"archived"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// TrainerFilter captures filtering options for listing trainers.
type TrainerFilter struct {
	Search    string
	Archived  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
