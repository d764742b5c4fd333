package models

import "time"

// Trainee represents an enrolled learner with an enrollment window.
type Trainee struct {
	ID              string    `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           string    `db:"email" json:"email"`
	EnrollmentStart time.Time `db:"enrollment_start" json:"enrollment_start"`
	EnrollmentEnd   time.Time `db:"enrollment_end" json:"enrollment_end"`
	Archived        bool      `db:"archived" json:"archived"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Suspension excludes a trainee from scheduling for a date range.
type Suspension struct {
	ID        string    `db:"id" json:"id"`
	TraineeID string    `db:"trainee_id" json:"trainee_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TraineeFilter captures filtering options for listing trainees.
type TraineeFilter struct {
	Search       string
	Archived     *bool
	EndingBefore *time.Time
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
