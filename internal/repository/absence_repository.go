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

// AbsenceRepository manages absence and exceptional-availability records.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

const absenceColumns = "id, trainer_id, kind, status, start_date, end_date, slot, reason, created_at, updated_at"

// List returns absences matching the filter along with total count.
func (r *AbsenceRepository) List(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, int, error) {
	base := "FROM absences WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TrainerID != "" {
		conditions = append(conditions, fmt.Sprintf("trainer_id = $%d", len(args)+1))
		args = append(args, filter.TrainerID)
	}
	if filter.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, *filter.Kind)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC LIMIT %d OFFSET %d", absenceColumns, base, size, offset)
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list absences: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count absences: %w", err)
	}

	return absences, total, nil
}

// ListOverlapping returns every non-cancelled absence overlapping the range,
// for all trainers at once. Batch callers classify many trainer/day pairs
// against this single snapshot instead of querying per trainer per day.
func (r *AbsenceRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Absence, error) {
	query := fmt.Sprintf("SELECT %s FROM absences WHERE status <> $1 AND start_date <= $3 AND end_date >= $2 ORDER BY created_at ASC", absenceColumns)
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, models.AbsenceCancelled, from, to); err != nil {
		return nil, fmt.Errorf("list overlapping absences: %w", err)
	}
	return absences, nil
}

// FindByID fetches an absence by ID.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	query := fmt.Sprintf("SELECT %s FROM absences WHERE id = $1", absenceColumns)
	var a models.Absence
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new absence record.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = now
	}
	absence.UpdatedAt = now

	const query = `INSERT INTO absences (id, trainer_id, kind, status, start_date, end_date, slot, reason, created_at, updated_at)
		VALUES (:id, :trainer_id, :kind, :status, :start_date, :end_date, :slot, :reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// UpdateStatus transitions an absence through its lifecycle.
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id string, status models.AbsenceStatus) error {
	const query = `UPDATE absences SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update absence status: %w", err)
	}
	return nil
}

// DeleteByIDs removes absence rows, used only by the orphan cleanup.
func (r *AbsenceRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM absences WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build orphan delete: %w", err)
	}
	query = r.db.Rebind(query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete absences: %w", err)
	}
	return nil
}

// ListAll returns every absence row, used by the audit scan.
func (r *AbsenceRepository) ListAll(ctx context.Context) ([]models.Absence, error) {
	query := fmt.Sprintf("SELECT %s FROM absences ORDER BY created_at ASC", absenceColumns)
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query); err != nil {
		return nil, fmt.Errorf("list all absences: %w", err)
	}
	return absences, nil
}
