package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type adminLockStore interface {
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	Holder(ctx context.Context) (string, error)
	Heartbeat(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, sessionID string) error
	Steal(ctx context.Context, sessionID string, ttl time.Duration) error
}

// AdminLockConfig tunes the single-admin-session lock.
type AdminLockConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AdminLockService guards the mutating admin surface with a TTL-based lock.
// Only one admin session holds the lock at a time; a session that stops
// heartbeating loses it once the TTL runs out, so a crashed browser never
// wedges the system.
type AdminLockService struct {
	store  adminLockStore
	logger *zap.Logger
	cfg    AdminLockConfig
}

// NewAdminLockService constructs an AdminLockService.
func NewAdminLockService(store adminLockStore, logger *zap.Logger, cfg AdminLockConfig) *AdminLockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Minute
	}
	return &AdminLockService{store: store, logger: logger, cfg: cfg}
}

// Acquire takes the lock for the session. ErrLockHeld is returned when a
// live lock belongs to another session.
func (s *AdminLockService) Acquire(ctx context.Context, sessionID string) error {
	if !s.cfg.Enabled {
		return nil
	}
	ok, err := s.store.Acquire(ctx, sessionID, s.cfg.TTL)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire admin lock")
	}
	if !ok {
		holder, herr := s.store.Holder(ctx)
		if herr == nil && holder == sessionID {
			return nil
		}
		return appErrors.Clone(appErrors.ErrLockHeld, "")
	}
	return nil
}

// Heartbeat extends the session's hold on the lock. ErrLockHeld signals the
// lock was lost, typically after a takeover.
func (s *AdminLockService) Heartbeat(ctx context.Context, sessionID string) error {
	if !s.cfg.Enabled {
		return nil
	}
	ok, err := s.store.Heartbeat(ctx, sessionID, s.cfg.TTL)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh admin lock")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrLockHeld, "admin lock was taken over by another session")
	}
	return nil
}

// Release frees the lock. Best effort: releasing a lock another session has
// since stolen is a no-op.
func (s *AdminLockService) Release(ctx context.Context, sessionID string) {
	if !s.cfg.Enabled {
		return
	}
	if err := s.store.Release(ctx, sessionID); err != nil {
		s.logger.Warn("failed to release admin lock", zap.Error(err))
	}
}

// Steal forcibly takes over the lock, used when the previous admin session
// died without releasing. The TTL keeps stale holders bounded either way.
func (s *AdminLockService) Steal(ctx context.Context, sessionID string) error {
	if !s.cfg.Enabled {
		return nil
	}
	if err := s.store.Steal(ctx, sessionID, s.cfg.TTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to take over admin lock")
	}
	return nil
}
