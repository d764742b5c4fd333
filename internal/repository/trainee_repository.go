package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formaplan/formaplan-api/internal/models"
)

// TraineeRepository manages persistence for trainees and their suspensions.
type TraineeRepository struct {
	db *sqlx.DB
}

// NewTraineeRepository constructs a TraineeRepository.
func NewTraineeRepository(db *sqlx.DB) *TraineeRepository {
	return &TraineeRepository{db: db}
}

const traineeColumns = "id, full_name, email, enrollment_start, enrollment_end, archived, created_at, updated_at"

// List returns trainees matching filters along with total count.
func (r *TraineeRepository) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error) {
	base := "FROM trainees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Archived != nil {
		conditions = append(conditions, fmt.Sprintf("archived = $%d", len(args)+1))
		args = append(args, *filter.Archived)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.EndingBefore != nil {
		conditions = append(conditions, fmt.Sprintf("enrollment_end <= $%d", len(args)+1))
		args = append(args, *filter.EndingBefore)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY full_name ASC LIMIT %d OFFSET %d", traineeColumns, base, size, offset)
	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainees: %w", err)
	}

	return trainees, total, nil
}

// ListEnrolled returns non-archived trainees whose enrollment window overlaps
// the given range.
func (r *TraineeRepository) ListEnrolled(ctx context.Context, from, to time.Time) ([]models.Trainee, error) {
	query := fmt.Sprintf("SELECT %s FROM trainees WHERE archived = FALSE AND enrollment_start <= $2 AND enrollment_end >= $1 ORDER BY full_name ASC", traineeColumns)
	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, from, to); err != nil {
		return nil, fmt.Errorf("list enrolled trainees: %w", err)
	}
	return trainees, nil
}

// ListEndingBetween returns trainees whose enrollment ends within the window,
// used by the end-of-enrollment alert scan.
func (r *TraineeRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Trainee, error) {
	query := fmt.Sprintf("SELECT %s FROM trainees WHERE archived = FALSE AND enrollment_end BETWEEN $1 AND $2 ORDER BY enrollment_end ASC", traineeColumns)
	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, from, to); err != nil {
		return nil, fmt.Errorf("list ending trainees: %w", err)
	}
	return trainees, nil
}

// FindByID fetches a trainee by ID.
func (r *TraineeRepository) FindByID(ctx context.Context, id string) (*models.Trainee, error) {
	query := fmt.Sprintf("SELECT %s FROM trainees WHERE id = $1", traineeColumns)
	var trainee models.Trainee
	if err := r.db.GetContext(ctx, &trainee, query, id); err != nil {
		return nil, err
	}
	return &trainee, nil
}

// Create inserts a new trainee record.
func (r *TraineeRepository) Create(ctx context.Context, trainee *models.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainee.CreatedAt.IsZero() {
		trainee.CreatedAt = now
	}
	trainee.UpdatedAt = now

	const query = `INSERT INTO trainees (id, full_name, email, enrollment_start, enrollment_end, archived, created_at, updated_at)
		VALUES (:id, :full_name, :email, :enrollment_start, :enrollment_end, :archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("create trainee: %w", err)
	}
	return nil
}

// Update modifies an existing trainee record.
func (r *TraineeRepository) Update(ctx context.Context, trainee *models.Trainee) error {
	trainee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainees SET full_name = :full_name, email = :email, enrollment_start = :enrollment_start, enrollment_end = :enrollment_end, archived = :archived, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	return nil
}

// Archive soft-deletes a trainee.
func (r *TraineeRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE trainees SET archived = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive trainee: %w", err)
	}
	return nil
}

// ListSuspensions returns suspensions overlapping the given range.
func (r *TraineeRepository) ListSuspensions(ctx context.Context, from, to time.Time) ([]models.Suspension, error) {
	const query = `SELECT id, trainee_id, start_date, end_date, reason, created_at FROM suspensions WHERE start_date <= $2 AND end_date >= $1`
	var suspensions []models.Suspension
	if err := r.db.SelectContext(ctx, &suspensions, query, from, to); err != nil {
		return nil, fmt.Errorf("list suspensions: %w", err)
	}
	return suspensions, nil
}

// CreateSuspension records a new suspension for a trainee.
func (r *TraineeRepository) CreateSuspension(ctx context.Context, suspension *models.Suspension) error {
	if suspension.ID == "" {
		suspension.ID = uuid.NewString()
	}
	if suspension.CreatedAt.IsZero() {
		suspension.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO suspensions (id, trainee_id, start_date, end_date, reason, created_at)
		VALUES (:id, :trainee_id, :start_date, :end_date, :reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, suspension); err != nil {
		return fmt.Errorf("create suspension: %w", err)
	}
	return nil
}
