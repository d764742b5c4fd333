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

func templateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_type", "owner_id", "weekday", "slot", "status", "location_id", "validated", "created_at", "updated_at"})
}

func TestTemplateRepositoryListByOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTemplateRepository(db)

	now := time.Now()
	rows := templateRows().
		AddRow("tpl1", models.OwnerTrainer, "t1", models.Monday, models.SlotMorning, models.TemplateAvailable, nil, true, now, now)
	mock.ExpectQuery("SELECT .* FROM weekly_templates WHERE 1=1 AND owner_type = \\$1 AND owner_id = \\$2 ORDER BY created_at ASC").
		WithArgs(models.OwnerTrainer, "t1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.TemplateFilter{OwnerType: models.OwnerTrainer, OwnerID: "t1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepositoryListAllValidated(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTemplateRepository(db)

	now := time.Now()
	rows := templateRows().
		AddRow("tpl1", models.OwnerTrainer, "t1", models.Monday, models.SlotMorning, models.TemplateAvailable, nil, true, now, now).
		AddRow("tpl2", models.OwnerTrainee, "a1", models.Monday, models.SlotMorning, models.TemplateAvailable, "loc1", true, now, now)
	mock.ExpectQuery("SELECT .* FROM weekly_templates WHERE 1=1 AND validated = \\$1 ORDER BY created_at ASC").
		WithArgs(true).
		WillReturnRows(rows)

	list, err := repo.ListAllValidated(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTemplateRepository(db)

	mock.ExpectExec("INSERT INTO weekly_templates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.TemplateEntry{
		OwnerType: models.OwnerTrainer,
		OwnerID:   "t1",
		Weekday:   models.Monday,
		Slot:      models.SlotMorning,
		Status:    models.TemplateAvailable,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)

	mock.ExpectExec("DELETE FROM weekly_templates WHERE id = \\$1").
		WithArgs(entry.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), entry.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
