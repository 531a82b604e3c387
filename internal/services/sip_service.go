package services

import (
	"context"
	"fmt"
	"log/slog"

	"sipfolio/internal/core"
)

// SIPService orchestrates SIP creation across the record store and the
// export pipeline.
type SIPService struct {
	users     UserDirectory
	store     SIPStore
	publisher ExportPublisher
}

func NewSIPService(users UserDirectory, store SIPStore, publisher ExportPublisher) *SIPService {
	return &SIPService{
		users:     users,
		store:     store,
		publisher: publisher,
	}
}

// CreateSIP validates and stores a new SIP record, then publishes an export
// message. Publishing is best effort: the record is already durable, so a
// broker outage never fails the request.
func (s *SIPService) CreateSIP(ctx context.Context, rec core.SIPRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	exists, err := s.users.UserExists(ctx, rec.UserID)
	if err != nil {
		return 0, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	id, err := s.store.CreateSIP(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save sip: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, skipping export message", "id", id)
		return id, nil
	}
	if err := s.publisher.PublishSIPExport(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message", "id", id, "error", err)
	}

	return id, nil
}
