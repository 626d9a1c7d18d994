package service

import (
	"context"
	"fmt"
	"time"

	"taxreturn/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditLogFilter struct {
	EntityID string // a filing or review id
	Action   string
	Page     int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns the trail newest first, with the acting user resolved to a name.
func (s *auditService) GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	logs, total, err := s.repo.List(ctx, repository.AuditFilter{
		EntityID: filter.EntityID,
		Action:   filter.Action,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
