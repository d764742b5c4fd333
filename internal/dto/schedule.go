package dto

import (
	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
)

// TrainerSlotView is one resolved cell of the weekly schedule: a trainer's
// effective status for a date and slot plus the location it implies.
type TrainerSlotView struct {
	TrainerID  string              `json:"trainer_id"`
	FullName   string              `json:"full_name"`
	Status     planning.SlotStatus `json:"status"`
	LocationID *string             `json:"location_id,omitempty"`
}

// DayScheduleView groups resolved cells for one working day.
type DayScheduleView struct {
	Date      string            `json:"date"`
	Weekday   models.Weekday    `json:"weekday"`
	Morning   []TrainerSlotView `json:"morning"`
	Afternoon []TrainerSlotView `json:"afternoon"`
}

// WeekScheduleView is the full weekly schedule, Monday through Friday.
// Partial is true when part of the reference data could not be loaded and
// the affected cells degraded to not_scheduled.
type WeekScheduleView struct {
	WeekStart string            `json:"week_start"`
	Days      []DayScheduleView `json:"days"`
	Partial   bool              `json:"partial,omitempty"`
}

// CandidateView is a trainer eligible for placement on a given day and slot.
type CandidateView struct {
	TrainerID  string              `json:"trainer_id"`
	FullName   string              `json:"full_name"`
	Status     planning.SlotStatus `json:"status"`
	LocationID *string             `json:"location_id,omitempty"`
}

// SlotOverview summarises one half-day for the coordinator dashboard.
type SlotOverview struct {
	Slot       models.Slot                 `json:"slot"`
	Counts     map[planning.SlotStatus]int `json:"counts"`
	Candidates []CandidateView             `json:"candidates"`
}

// DashboardDayView is the per-day coordinator overview.
type DashboardDayView struct {
	Date    string         `json:"date"`
	Weekday models.Weekday `json:"weekday"`
	Slots   []SlotOverview `json:"slots"`
}
