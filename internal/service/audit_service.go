package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/formaplan/formaplan-api/internal/models"
	"github.com/formaplan/formaplan-api/internal/planning"
	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

type auditAbsenceLister interface {
	ListAll(ctx context.Context) ([]models.Absence, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type auditTrainerLister interface {
	ListAll(ctx context.Context) ([]models.Trainer, error)
}

// AuditReport is the data-quality report over templates and absences.
// Inconsistencies are surfaced, never repaired implicitly.
type AuditReport struct {
	DuplicateTemplates []planning.DuplicateTemplate `json:"duplicate_templates"`
	OrphanAbsences     []models.Absence             `json:"orphan_absences"`
}

// AuditService scans reference data for known inconsistency classes.
type AuditService struct {
	templates scheduleTemplateLister
	absences  auditAbsenceLister
	trainers  auditTrainerLister
	logger    *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(templates scheduleTemplateLister, absences auditAbsenceLister, trainers auditTrainerLister, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{templates: templates, absences: absences, trainers: trainers, logger: logger}
}

// Report builds the data-quality report: validated template entries
// colliding on the same cell, and absences whose trainer left the roster.
// Archived trainers still anchor their absences; only records pointing at
// unknown IDs count as orphans.
func (s *AuditService) Report(ctx context.Context) (*AuditReport, error) {
	templates, err := s.templates.ListAllValidated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates for audit")
	}

	absences, err := s.absences.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences for audit")
	}

	trainers, err := s.trainers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainers for audit")
	}

	report := &AuditReport{
		DuplicateTemplates: planning.FindDuplicateTemplates(templates),
		OrphanAbsences:     planning.FindOrphanAbsences(absences, trainers),
	}
	return report, nil
}

// PurgeOrphans deletes the orphan absences found by a fresh scan and returns
// how many were removed. Explicitly admin-triggered.
func (s *AuditService) PurgeOrphans(ctx context.Context) (int, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	if len(report.OrphanAbsences) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(report.OrphanAbsences))
	for _, a := range report.OrphanAbsences {
		ids = append(ids, a.ID)
	}
	if err := s.absences.DeleteByIDs(ctx, ids); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge orphan absences")
	}

	s.logger.Info("orphan absences purged", zap.Int("count", len(ids)))
	return len(ids), nil
}
