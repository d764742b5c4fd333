package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
)

func TestAssignmentRepositoryListByDateRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "weekday", "slot", "location_id", "trainer_ids", "trainee_ids", "created_at", "updated_at"}).
		AddRow("as1", from, models.Monday, models.SlotMorning, "loc1", "{t1,t2}", "{a1}", from, from)
	mock.ExpectQuery("SELECT .* FROM assignments WHERE date BETWEEN \\$1 AND \\$2").
		WithArgs(from, to).
		WillReturnRows(rows)

	list, err := repo.ListByDateRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"t1", "t2"}, []string(list[0].TrainerIDs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryReplaceWeekIsTransactional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	from := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assignments WHERE date BETWEEN \\$1 AND \\$2").
		WithArgs(from, to).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assignments := []models.Assignment{
		{Date: from, Weekday: models.Monday, Slot: models.SlotMorning, LocationID: "loc1", TrainerIDs: []string{"t1"}},
		{Date: from, Weekday: models.Monday, Slot: models.SlotAfternoon, LocationID: "loc1", TrainerIDs: []string{"t2"}},
	}
	require.NoError(t, repo.ReplaceWeek(context.Background(), from, to, assignments))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryReplaceWeekRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	from := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assignments WHERE date BETWEEN \\$1 AND \\$2").
		WithArgs(from, to).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assignments := []models.Assignment{
		{Date: from, Weekday: models.Monday, Slot: models.SlotMorning, LocationID: "loc1", TrainerIDs: []string{"t1"}},
	}
	err := repo.ReplaceWeek(context.Background(), from, to, assignments)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{
		Date:       time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Weekday:    models.Monday,
		Slot:       models.SlotMorning,
		LocationID: "loc1",
		TrainerIDs: []string{"t1"},
	}
	require.NoError(t, repo.Upsert(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
