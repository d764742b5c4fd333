package models

import "time"

// Message is an in-app inbox message.
type Message struct {
	ID          string     `db:"id" json:"id"`
	SenderID    *string    `db:"sender_id" json:"sender_id,omitempty"`
	RecipientID string     `db:"recipient_id" json:"recipient_id"`
	Subject     string     `db:"subject" json:"subject"`
	Body        string     `db:"body" json:"body"`
	Kind        string     `db:"kind" json:"kind"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	Archived    bool       `db:"archived" json:"archived"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// MessageFilter scopes inbox queries.
type MessageFilter struct {
	RecipientID string
	Unread      *bool
	Archived    *bool
	Page        int
	PageSize    int
}

// Message kinds produced by the system.
const (
	MessageKindUser            = "user"
	MessageKindEnrollmentAlert = "enrollment_alert"
)
