package audit

import (
	"log"

	"github.com/Yu1chiro/elib-smantiara/internal/database/audit"
	"github.com/Yu1chiro/elib-smantiara/internal/entities"
)

// Service provides high-level audit logging for administrative actions.
// Logging is advisory: failures are logged locally and never surfaced to the
// operation being audited.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogMutation records a catalog mutation (create, update, delete).
func (s *Service) LogMutation(eventType entities.AuditEventType, action, description string, bookID *uint, ip string, err error) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		EntityID:    bookID,
		IPAddress:   ip,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records a login or logout attempt.
func (s *Service) LogAuth(action, ip string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: action,
		IPAddress:   ip,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
