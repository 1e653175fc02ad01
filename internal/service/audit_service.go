package service

import (
	"context"

	"go.uber.org/zap"

	"zapmanager/internal/model"
	"zapmanager/internal/repository"
)

// RecentAuditLimit caps the number of entries returned by AuditService.Recent.
const RecentAuditLimit = 100

// Actor identifies who performed an audited action. A zero UserID means no authenticated user.
type Actor struct {
	UserID   string
	Username string
}

// AuditService records and reads administrative actions.
type AuditService interface {
	// Record appends an entry. Storage failures are logged and never reach the caller.
	Record(ctx context.Context, actor Actor, action, details string)
	Recent(ctx context.Context) ([]model.AuditLog, error)
}

type auditService struct {
	repo repository.AuditLogRepository
	log  *zap.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(repo repository.AuditLogRepository, log *zap.Logger) AuditService {
	return &auditService{repo: repo, log: log.Named("audit")}
}

func (s *auditService) Record(ctx context.Context, actor Actor, action, details string) {
	entry := &model.AuditLog{
		UserID:   optionalString(actor.UserID),
		Username: optionalString(actor.Username),
		Action:   action,
		Details:  optionalString(details),
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error("failed to log action",
			zap.String("action", action),
			zap.String("username", actor.Username),
			zap.Error(err),
		)
	}
}

func (s *auditService) Recent(ctx context.Context) ([]model.AuditLog, error) {
	return s.repo.ListRecent(ctx, RecentAuditLimit)
}

// optionalString maps "" to nil.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullable converts an optional string into a column value, nil meaning NULL.
func nullable(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
