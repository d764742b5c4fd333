package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formaplan/formaplan-api/internal/models"
)

// AssignmentRepository manages coordinator placements ("planning
// hebdomadaire") and the placement history derived from them.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = "id, date, weekday, slot, location_id, trainer_ids, trainee_ids, created_at, updated_at"

// ListByDateRange returns placements for the given inclusive date range.
func (r *AssignmentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE date BETWEEN $1 AND $2 ORDER BY date ASC, slot ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, from, to); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByDate returns placements for a single day.
func (r *AssignmentRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Assignment, error) {
	return r.ListByDateRange(ctx, date, date)
}

// Upsert writes one placement cell, keyed by (date, slot, location).
func (r *AssignmentRepository) Upsert(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, date, weekday, slot, location_id, trainer_ids, trainee_ids, created_at, updated_at)
		VALUES (:id, :date, :weekday, :slot, :location_id, :trainer_ids, :trainee_ids, :created_at, :updated_at)
		ON CONFLICT (date, slot, location_id)
		DO UPDATE SET weekday = EXCLUDED.weekday, trainer_ids = EXCLUDED.trainer_ids, trainee_ids = EXCLUDED.trainee_ids, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

// ReplaceWeek atomically swaps all placements of a week for the generated
// draft. Running the autofill twice against identical inputs leaves the same
// rows behind.
func (r *AssignmentRepository) ReplaceWeek(ctx context.Context, from, to time.Time, assignments []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace week: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE date BETWEEN $1 AND $2`, from, to); err != nil {
		return fmt.Errorf("clear week assignments: %w", err)
	}

	const insert = `INSERT INTO assignments (id, date, weekday, slot, location_id, trainer_ids, trainee_ids, created_at, updated_at)
		VALUES (:id, :date, :weekday, :slot, :location_id, :trainer_ids, :trainee_ids, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range assignments {
		a := &assignments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, a); err != nil {
			return fmt.Errorf("insert week assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace week: %w", err)
	}
	return nil
}

// Delete removes a placement cell.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// LocationFrequencies aggregates how often each trainer was placed at each
// location per weekday and slot, over placements strictly before the cutoff.
// Feeds the materializer's location fallback.
func (r *AssignmentRepository) LocationFrequencies(ctx context.Context, before time.Time) ([]models.LocationFrequency, error) {
	const query = `SELECT t.trainer_id, a.weekday, a.slot, a.location_id, COUNT(*) AS count
		FROM assignments a, UNNEST(a.trainer_ids) AS t(trainer_id)
		WHERE a.date < $1
		GROUP BY t.trainer_id, a.weekday, a.slot, a.location_id
		ORDER BY t.trainer_id, a.weekday, a.slot, count DESC, MIN(a.date) ASC`
	var freqs []models.LocationFrequency
	if err := r.db.SelectContext(ctx, &freqs, query, before); err != nil {
		return nil, fmt.Errorf("aggregate location frequencies: %w", err)
	}
	return freqs, nil
}
