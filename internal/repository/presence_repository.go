package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formaplan/formaplan-api/internal/models"
)

// PresenceRepository manages trainer self-declared attendance.
type PresenceRepository struct {
	db *sqlx.DB
}

// NewPresenceRepository constructs a PresenceRepository.
func NewPresenceRepository(db *sqlx.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

const presenceColumns = "id, trainer_id, date, slot, present, note, warning, created_at, updated_at"

// Find fetches a declaration for one trainer, date and slot.
func (r *PresenceRepository) Find(ctx context.Context, trainerID string, date time.Time, slot models.Slot) (*models.PresenceDeclaration, error) {
	query := fmt.Sprintf("SELECT %s FROM presence_declarations WHERE trainer_id = $1 AND date = $2 AND slot = $3", presenceColumns)
	var declaration models.PresenceDeclaration
	if err := r.db.GetContext(ctx, &declaration, query, trainerID, date, slot); err != nil {
		return nil, err
	}
	return &declaration, nil
}

// ListByDate returns all declarations for a day.
func (r *PresenceRepository) ListByDate(ctx context.Context, date time.Time) ([]models.PresenceDeclaration, error) {
	query := fmt.Sprintf("SELECT %s FROM presence_declarations WHERE date = $1 ORDER BY trainer_id, slot", presenceColumns)
	var declarations []models.PresenceDeclaration
	if err := r.db.SelectContext(ctx, &declarations, query, date); err != nil {
		return nil, fmt.Errorf("list presence declarations: %w", err)
	}
	return declarations, nil
}

// Upsert writes a declaration keyed by (trainer, date, slot). Re-declaring
// overwrites the previous answer; last write wins.
func (r *PresenceRepository) Upsert(ctx context.Context, declaration *models.PresenceDeclaration) error {
	if declaration.ID == "" {
		declaration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if declaration.CreatedAt.IsZero() {
		declaration.CreatedAt = now
	}
	declaration.UpdatedAt = now

	const query = `INSERT INTO presence_declarations (id, trainer_id, date, slot, present, note, warning, created_at, updated_at)
		VALUES (:id, :trainer_id, :date, :slot, :present, :note, :warning, :created_at, :updated_at)
		ON CONFLICT (trainer_id, date, slot)
		DO UPDATE SET present = EXCLUDED.present, note = EXCLUDED.note, warning = EXCLUDED.warning, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, declaration); err != nil {
		return fmt.Errorf("upsert presence declaration: %w", err)
	}
	return nil
}
