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

// TemplateRepository manages weekly template entries ("planning type").
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs a TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = "id, owner_type, owner_id, weekday, slot, status, location_id, validated, created_at, updated_at"

// List returns template entries matching the filter, oldest first so callers
// relying on creation-order tie-breaking get rows in the right order.
func (r *TemplateRepository) List(ctx context.Context, filter models.TemplateFilter) ([]models.TemplateEntry, error) {
	base := "FROM weekly_templates WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.OwnerType != "" {
		conditions = append(conditions, fmt.Sprintf("owner_type = $%d", len(args)+1))
		args = append(args, filter.OwnerType)
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.Weekday != nil {
		conditions = append(conditions, fmt.Sprintf("weekday = $%d", len(args)+1))
		args = append(args, *filter.Weekday)
	}
	if filter.Slot != nil {
		conditions = append(conditions, fmt.Sprintf("slot = $%d", len(args)+1))
		args = append(args, *filter.Slot)
	}
	if filter.Validated != nil {
		conditions = append(conditions, fmt.Sprintf("validated = $%d", len(args)+1))
		args = append(args, *filter.Validated)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC", templateColumns, base)
	var entries []models.TemplateEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return entries, nil
}

// ListAllValidated returns every validated entry, the batch snapshot the
// resolver and materializer run over.
func (r *TemplateRepository) ListAllValidated(ctx context.Context) ([]models.TemplateEntry, error) {
	validated := true
	return r.List(ctx, models.TemplateFilter{Validated: &validated})
}

// FindByID fetches a template entry by ID.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.TemplateEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_templates WHERE id = $1", templateColumns)
	var entry models.TemplateEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new template entry.
func (r *TemplateRepository) Create(ctx context.Context, entry *models.TemplateEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO weekly_templates (id, owner_type, owner_id, weekday, slot, status, location_id, validated, created_at, updated_at)
		VALUES (:id, :owner_type, :owner_id, :weekday, :slot, :status, :location_id, :validated, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create template entry: %w", err)
	}
	return nil
}

// Update modifies an existing template entry.
func (r *TemplateRepository) Update(ctx context.Context, entry *models.TemplateEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE weekly_templates SET weekday = :weekday, slot = :slot, status = :status, location_id = :location_id, validated = :validated, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update template entry: %w", err)
	}
	return nil
}

// Delete removes a template entry, used when repairing duplicates.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete template entry: %w", err)
	}
	return nil
}
