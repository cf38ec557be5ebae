package auditlog

import (
	"context"
	"encoding/json"
	"math"

	"go.uber.org/zap"
)

type Service interface {
	LogAction(ctx context.Context, farmerID *uint, action string, details map[string]interface{}, status string)
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// LogAction creates a new audit log entry. The acting user and client IP come
// from ctx. Failures to persist are logged and never reach the caller.
func (s *service) LogAction(ctx context.Context, farmerID *uint, action string, details map[string]interface{}, status string) {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	actor := ActorFromContext(ctx)
	entry := &AuditLog{
		UserID:    actor.UserID,
		FarmerID:  farmerID,
		Action:    action,
		Details:   string(detailsJSON),
		IPAddress: actor.IP,
		Status:    status,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
