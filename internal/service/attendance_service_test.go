package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
	"github.com/formaplan/formaplan-api/pkg/export"
)

type stubPresences struct {
	saved        []models.PresenceDeclaration
	declarations []models.PresenceDeclaration
}

func (s *stubPresences) Find(context.Context, string, time.Time, models.Slot) (*models.PresenceDeclaration, error) {
	return nil, sql.ErrNoRows
}

func (s *stubPresences) ListByDate(context.Context, time.Time) ([]models.PresenceDeclaration, error) {
	return s.declarations, nil
}

func (s *stubPresences) Upsert(_ context.Context, declaration *models.PresenceDeclaration) error {
	s.saved = append(s.saved, *declaration)
	return nil
}

type stubResolver struct {
	resolution planning.Resolution
	err        error
}

func (s *stubResolver) ResolveSlot(context.Context, string, time.Time, models.Slot) (planning.Resolution, error) {
	return s.resolution, s.err
}

func newAttendanceService(presences *stubPresences, resolver *stubResolver, trainers []models.Trainer) *AttendanceService {
	return NewAttendanceService(
		presences,
		resolver,
		&stubTrainers{trainers: trainers},
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		nil,
	)
}

func TestAttendanceServiceDeclareBlockedByValidatedAbsence(t *testing.T) {
	presences := &stubPresences{}
	resolver := &stubResolver{resolution: planning.Resolution{Status: planning.StatusAbsent}}
	svc := newAttendanceService(presences, resolver, nil)

	_, err := svc.Declare(context.Background(), PresenceRequest{
		TrainerID: "t1",
		Date:      "2025-09-01",
		Slot:      models.SlotMorning,
		Present:   true,
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPresenceConflict.Code, appErr.Code)
	assert.Empty(t, presences.saved)
}

func TestAttendanceServiceDeclareWarningIsStored(t *testing.T) {
	presences := &stubPresences{}
	resolver := &stubResolver{resolution: planning.Resolution{Status: planning.StatusNotScheduled}}
	svc := newAttendanceService(presences, resolver, nil)

	declaration, err := svc.Declare(context.Background(), PresenceRequest{
		TrainerID: "t1",
		Date:      "2025-09-01",
		Slot:      models.SlotMorning,
		Present:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, declaration.Warning)
	assert.Contains(t, *declaration.Warning, "expected involvement")
	require.Len(t, presences.saved, 1)
	require.NotNil(t, presences.saved[0].Warning)
}

func TestAttendanceServiceDeclareAssignedIsClean(t *testing.T) {
	presences := &stubPresences{}
	resolver := &stubResolver{resolution: planning.Resolution{Status: planning.StatusAssigned}}
	svc := newAttendanceService(presences, resolver, nil)

	declaration, err := svc.Declare(context.Background(), PresenceRequest{
		TrainerID: "t1",
		Date:      "2025-09-01",
		Slot:      models.SlotAfternoon,
		Present:   true,
	})
	require.NoError(t, err)
	assert.Nil(t, declaration.Warning)
}

func TestAttendanceServiceDeclareAbsentNeverConflicts(t *testing.T) {
	presences := &stubPresences{}
	resolver := &stubResolver{resolution: planning.Resolution{Status: planning.StatusAbsent}}
	svc := newAttendanceService(presences, resolver, nil)

	declaration, err := svc.Declare(context.Background(), PresenceRequest{
		TrainerID: "t1",
		Date:      "2025-09-01",
		Slot:      models.SlotMorning,
		Present:   false,
	})
	require.NoError(t, err)
	assert.Nil(t, declaration.Warning)
}

func TestAttendanceServiceDeclareRejectsBadDate(t *testing.T) {
	svc := newAttendanceService(&stubPresences{}, &stubResolver{}, nil)

	_, err := svc.Declare(context.Background(), PresenceRequest{
		TrainerID: "t1",
		Date:      "01/09/2025",
		Slot:      models.SlotMorning,
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidDate.Code, appErr.Code)
}

func TestAttendanceServiceSheetCSV(t *testing.T) {
	note := "arrived late"
	presences := &stubPresences{declarations: []models.PresenceDeclaration{
		{TrainerID: "t1", Slot: models.SlotMorning, Present: true, Note: &note},
		{TrainerID: "t2", Slot: models.SlotAfternoon, Present: false},
	}}
	trainers := []models.Trainer{
		{ID: "t1", FullName: "Ada"},
		{ID: "t2", FullName: "Ben"},
	}
	svc := newAttendanceService(presences, &stubResolver{}, trainers)

	payload, filename, err := svc.Sheet(context.Background(), date(t, "2025-09-01"), SheetCSV)
	require.NoError(t, err)
	assert.Equal(t, "attendance-2025-09-01.csv", filename)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Trainer,Morning,Afternoon,Note", lines[0])
	assert.Equal(t, "Ada,present,-,arrived late", lines[1])
	assert.Equal(t, "Ben,-,absent,", lines[2])
}

func TestAttendanceServiceSheetPDF(t *testing.T) {
	svc := newAttendanceService(&stubPresences{}, &stubResolver{}, []models.Trainer{{ID: "t1", FullName: "Ada"}})

	payload, filename, err := svc.Sheet(context.Background(), date(t, "2025-09-01"), SheetPDF)
	require.NoError(t, err)
	assert.Equal(t, "attendance-2025-09-01.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestAttendanceServiceSheetRejectsUnknownFormat(t *testing.T) {
	svc := newAttendanceService(&stubPresences{}, &stubResolver{}, nil)

	_, _, err := svc.Sheet(context.Background(), date(t, "2025-09-01"), SheetFormat("xlsx"))
	assert.Error(t, err)
}
