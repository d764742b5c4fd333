package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formaplan/formaplan-api/internal/models"
)

type fakeMessageRepo struct {
	messages []models.Message
	cutoff   time.Time
	archived int64
}

func (f *fakeMessageRepo) List(_ context.Context, filter models.MessageFilter) ([]models.Message, int, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.RecipientID == filter.RecipientID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (f *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	message.ID = "msg-new"
	message.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, id string) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			now := time.Now().UTC()
			f.messages[i].ReadAt = &now
		}
	}
	return nil
}

func (f *fakeMessageRepo) ArchiveOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.archived, nil
}

func TestMessageSendDeliversUserMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, nil, nil, MessageServiceConfig{})

	sent, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2",
		Subject:     "Planning next week",
		Body:        "Can you cover Tuesday morning?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageKindUser, sent.Kind)
	require.NotNil(t, sent.SenderID)
	assert.Equal(t, "u1", *sent.SenderID)

	inbox, page, err := svc.Inbox(context.Background(), models.MessageFilter{RecipientID: "u2"})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, 1, page.TotalCount)
}

func TestMessageSendRejectsMissingRecipient(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, nil, nil, MessageServiceConfig{})

	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{Subject: "x", Body: "y"})
	assert.Error(t, err)
}

func TestMessageInboxRequiresRecipient(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, nil, nil, MessageServiceConfig{})

	_, _, err := svc.Inbox(context.Background(), models.MessageFilter{})
	assert.Error(t, err)
}

func TestMessageCleanupUsesRetentionCutoff(t *testing.T) {
	repo := &fakeMessageRepo{archived: 3}
	svc := NewMessageService(repo, nil, nil, MessageServiceConfig{RetentionDays: 30})

	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	count, err := svc.Cleanup(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, now.AddDate(0, 0, -30), repo.cutoff)
}

func TestMessageCleanupDefaultRetention(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, nil, nil, MessageServiceConfig{})

	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	_, err := svc.Cleanup(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -90), repo.cutoff)
}
