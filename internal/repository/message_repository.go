package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formaplan/formaplan-api/internal/models"
)

// MessageRepository manages the in-app inbox.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = "id, sender_id, recipient_id, subject, body, kind, read_at, archived, created_at"

// List returns inbox messages for a recipient along with total count.
func (r *MessageRepository) List(ctx context.Context, filter models.MessageFilter) ([]models.Message, int, error) {
	base := "FROM messages WHERE recipient_id = $1"
	args := []interface{}{filter.RecipientID}
	var conditions []string

	if filter.Unread != nil {
		if *filter.Unread {
			conditions = append(conditions, "read_at IS NULL")
		} else {
			conditions = append(conditions, "read_at IS NOT NULL")
		}
	}
	if filter.Archived != nil {
		conditions = append(conditions, fmt.Sprintf("archived = $%d", len(args)+1))
		args = append(args, *filter.Archived)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", messageColumns, base, size, offset)
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	return messages, total, nil
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, sender_id, recipient_id, subject, body, kind, read_at, archived, created_at)
		VALUES (:id, :sender_id, :recipient_id, :subject, :body, :kind, :read_at, :archived, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// MarkRead stamps a message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE messages SET read_at = $2 WHERE id = $1 AND read_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// ExistsKindSince reports whether a system message of the given kind was
// already sent to the recipient after the cutoff. Keeps the alert scan
// idempotent.
func (r *MessageRepository) ExistsKindSince(ctx context.Context, recipientID, kind string, since time.Time) (bool, error) {
	const query = `SELECT 1 FROM messages WHERE recipient_id = $1 AND kind = $2 AND created_at >= $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, recipientID, kind, since); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check message exists: %w", err)
	}
	return true, nil
}

// ArchiveOlderThan archives read messages created before the cutoff and
// returns how many rows changed. Already-archived rows are skipped, so the
// cleanup can rerun safely.
func (r *MessageRepository) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `UPDATE messages SET archived = TRUE WHERE archived = FALSE AND read_at IS NOT NULL AND created_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive stale messages: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count archived messages: %w", err)
	}
	return affected, nil
}
