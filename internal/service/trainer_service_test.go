package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type fakeTrainerRepo struct {
	trainers map[string]*models.Trainer
	archived []string
}

func newFakeTrainerRepo(trainers ...*models.Trainer) *fakeTrainerRepo {
	repo := &fakeTrainerRepo{trainers: map[string]*models.Trainer{}}
	for _, tr := range trainers {
		repo.trainers[tr.ID] = tr
	}
	return repo
}

func (f *fakeTrainerRepo) List(context.Context, models.TrainerFilter) ([]models.Trainer, int, error) {
	var out []models.Trainer
	for _, tr := range f.trainers {
		out = append(out, *tr)
	}
	return out, len(out), nil
}

func (f *fakeTrainerRepo) ListActive(context.Context) ([]models.Trainer, error) {
	return nil, nil
}

func (f *fakeTrainerRepo) FindByID(_ context.Context, id string) (*models.Trainer, error) {
	tr, ok := f.trainers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *tr
	return &copied, nil
}

func (f *fakeTrainerRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for _, tr := range f.trainers {
		if tr.Email == email && tr.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTrainerRepo) Create(_ context.Context, trainer *models.Trainer) error {
	trainer.ID = "tr-new"
	f.trainers[trainer.ID] = trainer
	return nil
}

func (f *fakeTrainerRepo) Update(_ context.Context, trainer *models.Trainer) error {
	f.trainers[trainer.ID] = trainer
	return nil
}

func (f *fakeTrainerRepo) Archive(_ context.Context, id string) error {
	f.archived = append(f.archived, id)
	return nil
}

func TestTrainerCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeTrainerRepo(&models.Trainer{ID: "t1", Email: "ada@example.com"})
	svc := NewTrainerService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), TrainerUpsertRequest{
		FullName: "Ada Again",
		Email:    "ada@example.com",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestTrainerUpdateAllowsKeepingOwnEmail(t *testing.T) {
	repo := newFakeTrainerRepo(&models.Trainer{ID: "t1", FullName: "Ada", Email: "ada@example.com"})
	invalidator := &stubInvalidator{}
	svc := NewTrainerService(repo, invalidator, nil, nil)

	updated, err := svc.Update(context.Background(), "t1", TrainerUpsertRequest{
		FullName: "Ada L.",
		Email:    "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.FullName)
	assert.Equal(t, 1, invalidator.calls)
}

func TestTrainerArchiveInvalidatesSchedules(t *testing.T) {
	repo := newFakeTrainerRepo(&models.Trainer{ID: "t1", Email: "ada@example.com"})
	invalidator := &stubInvalidator{}
	svc := NewTrainerService(repo, invalidator, nil, nil)

	require.NoError(t, svc.Archive(context.Background(), "t1"))
	assert.Equal(t, []string{"t1"}, repo.archived)
	assert.Equal(t, 1, invalidator.calls)
}

func TestTrainerGetUnknownID(t *testing.T) {
	svc := NewTrainerService(newFakeTrainerRepo(), nil, nil, nil)

	_, err := svc.Get(context.Background(), "nope")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
