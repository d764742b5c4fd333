package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/export"
)

type presenceRepository interface {
	Find(ctx context.Context, trainerID string, date time.Time, slot models.Slot) (*models.PresenceDeclaration, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.PresenceDeclaration, error)
	Upsert(ctx context.Context, declaration *models.PresenceDeclaration) error
}

type slotResolver interface {
	ResolveSlot(ctx context.Context, trainerID string, date time.Time, slot models.Slot) (planning.Resolution, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type sheetRenderer interface {
	Render(data export.Dataset, title, subtitle string, signature bool) ([]byte, error)
}

// PresenceRequest is a trainer's self-declared attendance for one slot.
type PresenceRequest struct {
	TrainerID string      `json:"trainer_id" validate:"required"`
	Date      string      `json:"date" validate:"required"`
	Slot      models.Slot `json:"slot" validate:"required,oneof=morning afternoon"`
	Present   bool        `json:"present"`
	Note      *string     `json:"note,omitempty"`
}

// SheetFormat selects the attendance sheet output format.
type SheetFormat string

const (
	SheetPDF SheetFormat = "pdf"
	SheetCSV SheetFormat = "csv"
)

// AttendanceService records presence declarations and renders attendance
// sheets. A declaration contradicting a validated absence is rejected
// outright; softer inconsistencies are stored as warnings on the record.
type AttendanceService struct {
	presences presenceRepository
	resolver  slotResolver
	trainers  scheduleTrainerLister
	csv       datasetRenderer
	pdf       sheetRenderer
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(presences presenceRepository, resolver slotResolver, trainers scheduleTrainerLister, csv datasetRenderer, pdf sheetRenderer, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		presences: presences,
		resolver:  resolver,
		trainers:  trainers,
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
	}
}

// Declare records a presence declaration. Re-declaring the same cell
// overwrites the previous answer.
func (s *AttendanceService) Declare(ctx context.Context, req PresenceRequest) (*models.PresenceDeclaration, error) {
	if !req.Slot.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot")
	}
	date, err := planning.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	resolution, err := s.resolver.ResolveSlot(ctx, req.TrainerID, date, req.Slot)
	if err != nil {
		return nil, err
	}

	check := planning.CheckPresence(req.Present, resolution.Status)
	if check.Level == planning.ConsistencyError {
		return nil, appErrors.Clone(appErrors.ErrPresenceConflict, check.Reason)
	}

	declaration := &models.PresenceDeclaration{
		TrainerID: req.TrainerID,
		Date:      date,
		Slot:      req.Slot,
		Present:   req.Present,
		Note:      req.Note,
	}
	if check.Level == planning.ConsistencyWarning {
		reason := check.Reason
		declaration.Warning = &reason
	}

	if err := s.presences.Upsert(ctx, declaration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save presence declaration")
	}
	return declaration, nil
}

// Declarations returns all declarations recorded for one day.
func (s *AttendanceService) Declarations(ctx context.Context, date time.Time) ([]models.PresenceDeclaration, error) {
	declarations, err := s.presences.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence declarations")
	}
	return declarations, nil
}

// Sheet renders the attendance sheet for one day: every active trainer with
// their declared morning and afternoon presence. The PDF variant carries a
// signature column for on-site counter-signing.
func (s *AttendanceService) Sheet(ctx context.Context, date time.Time, format SheetFormat) ([]byte, string, error) {
	trainers, err := s.trainers.ListActive(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer roster")
	}
	declarations, err := s.presences.ListByDate(ctx, date)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence declarations")
	}

	type slotKey struct {
		trainerID string
		slot      models.Slot
	}
	declared := make(map[slotKey]models.PresenceDeclaration, len(declarations))
	for _, d := range declarations {
		declared[slotKey{trainerID: d.TrainerID, slot: d.Slot}] = d
	}

	dataset := export.Dataset{Headers: []string{"Trainer", "Morning", "Afternoon", "Note"}}
	for _, trainer := range trainers {
		row := map[string]string{"Trainer": trainer.FullName}
		var notes string
		for _, slot := range models.Slots() {
			label := "-"
			if d, ok := declared[slotKey{trainerID: trainer.ID, slot: slot}]; ok {
				if d.Present {
					label = "present"
				} else {
					label = "absent"
				}
				if d.Warning != nil {
					label += " (!)"
				}
				if d.Note != nil && *d.Note != "" {
					notes = *d.Note
				}
			}
			switch slot {
			case models.SlotMorning:
				row["Morning"] = label
			case models.SlotAfternoon:
				row["Afternoon"] = label
			}
		}
		row["Note"] = notes
		dataset.Rows = append(dataset.Rows, row)
	}

	day := date.Format(planning.DateLayout)
	switch format {
	case SheetCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance csv")
		}
		return payload, fmt.Sprintf("attendance-%s.csv", day), nil
	case SheetPDF:
		payload, err := s.pdf.Render(dataset, "Attendance sheet", day, true)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance pdf")
		}
		return payload, fmt.Sprintf("attendance-%s.pdf", day), nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported sheet format")
	}
}

// Declaration fetches one recorded declaration, ErrNotFound when none exist.
func (s *AttendanceService) Declaration(ctx context.Context, trainerID string, date time.Time, slot models.Slot) (*models.PresenceDeclaration, error) {
	declaration, err := s.presences.Find(ctx, trainerID, date, slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no declaration recorded")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load presence declaration")
	}
	return declaration, nil
}
