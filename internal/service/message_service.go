package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type messageRepository interface {
	List(ctx context.Context, filter models.MessageFilter) ([]models.Message, int, error)
	Create(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, id string) error
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SendMessageRequest is the payload for a user-to-user message.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Body        string `json:"body" validate:"required"`
}

// MessageServiceConfig tunes inbox retention.
type MessageServiceConfig struct {
	RetentionDays int
}

// MessageService manages the in-app inbox.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       MessageServiceConfig
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, validate *validator.Validate, logger *zap.Logger, cfg MessageServiceConfig) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	return &MessageService{repo: repo, validator: validate, logger: logger, cfg: cfg}
}

// Inbox lists a recipient's messages with pagination metadata.
func (s *MessageService) Inbox(ctx context.Context, filter models.MessageFilter) ([]models.Message, *models.Pagination, error) {
	if filter.RecipientID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "recipient is required")
	}
	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return messages, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Send delivers a user message to a recipient's inbox.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	message := &models.Message{
		SenderID:    &senderID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Body:        req.Body,
		Kind:        models.MessageKindUser,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}

// MarkRead stamps a message as read. Re-reading is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	return nil
}

// Cleanup archives read messages older than the retention window and returns
// how many rows changed. Safe to rerun; already-archived rows are skipped.
func (s *MessageService) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.RetentionDays)
	archived, err := s.repo.ArchiveOlderThan(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive stale messages")
	}
	if archived > 0 {
		s.logger.Info("stale messages archived", zap.Int64("count", archived))
	}
	return archived, nil
}
