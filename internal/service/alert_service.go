package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type alertTraineeLister interface {
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]models.Trainee, error)
}

type alertMessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ExistsKindSince(ctx context.Context, recipientID, kind string, since time.Time) (bool, error)
}

type alertUserLister interface {
	ListActiveByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error)
}

// AlertServiceConfig tunes the enrollment-end scan.
type AlertServiceConfig struct {
	LeadDays int
}

// AlertService notifies admins and coordinators ahead of trainee enrollment
// ends. The scan keys idempotency per trainee, so rerunning within the lead
// window never duplicates a notification.
type AlertService struct {
	trainees alertTraineeLister
	messages alertMessageStore
	users    alertUserLister
	logger   *zap.Logger
	cfg      AlertServiceConfig
}

// NewAlertService constructs an AlertService.
func NewAlertService(trainees alertTraineeLister, messages alertMessageStore, users alertUserLister, logger *zap.Logger, cfg AlertServiceConfig) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LeadDays <= 0 {
		cfg.LeadDays = 14
	}
	return &AlertService{trainees: trainees, messages: messages, users: users, logger: logger, cfg: cfg}
}

// enrollmentAlertKind scopes the message kind per trainee so the
// once-per-trainee idempotency check rides on the kind column.
func enrollmentAlertKind(traineeID string) string {
	return models.MessageKindEnrollmentAlert + ":" + traineeID
}

// ScanEnrollmentEnds finds trainees whose enrollment ends within the lead
// window and messages every admin and coordinator about each, once. Returns
// the number of notifications sent.
func (s *AlertService) ScanEnrollmentEnds(ctx context.Context, now time.Time) (int, error) {
	from := planning.StartOfDay(now)
	to := from.AddDate(0, 0, s.cfg.LeadDays)

	ending, err := s.trainees.ListEndingBetween(ctx, from, to)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to scan ending enrollments")
	}
	if len(ending) == 0 {
		return 0, nil
	}

	recipients, err := s.users.ListActiveByRoles(ctx, models.RoleAdmin, models.RoleCoordinator)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification recipients")
	}

	sent := 0
	for _, trainee := range ending {
		kind := enrollmentAlertKind(trainee.ID)
		// One notification per trainee per lead window, whoever receives it.
		since := trainee.EnrollmentEnd.AddDate(0, 0, -s.cfg.LeadDays)

		for _, recipient := range recipients {
			already, err := s.messages.ExistsKindSince(ctx, recipient.ID, kind, since)
			if err != nil {
				s.logger.Warn("failed to check prior enrollment alert", zap.String("trainee_id", trainee.ID), zap.Error(err))
				continue
			}
			if already {
				continue
			}

			message := &models.Message{
				RecipientID: recipient.ID,
				Subject:     fmt.Sprintf("Enrollment ending: %s", trainee.FullName),
				Body: fmt.Sprintf("The enrollment of %s ends on %s.",
					trainee.FullName, trainee.EnrollmentEnd.Format(planning.DateLayout)),
				Kind: kind,
			}
			if err := s.messages.Create(ctx, message); err != nil {
				s.logger.Warn("failed to send enrollment alert", zap.String("trainee_id", trainee.ID), zap.Error(err))
				continue
			}
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("enrollment alerts sent", zap.Int("count", sent))
	}
	return sent, nil
}
