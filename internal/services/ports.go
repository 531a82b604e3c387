package services

import (
	"context"
	"errors"

	"sipfolio/internal/core"
)

// ErrUserNotFound is the summarize outcome for an unknown user or a user
// with zero SIP records. The two cases are distinguishable at the gateway
// (core.ErrUserUnknown vs an empty slice) but both are reported as not
// found to callers.
var (
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUsername covers usernames that survive normalization but
	// fall outside the allowed length.
	ErrInvalidUsername = errors.New("username must be 3-50 characters")
)

// Ports for the outbound collaborators. Concrete implementations are
// injected so every service can be exercised against a test double.
type (
	// RecordSource is the record store gateway: the single bulk read the
	// aggregator depends on. Implementations return core.ErrUserUnknown
	// when the user identifier does not exist.
	RecordSource interface {
		FetchRecordsForUser(ctx context.Context, userID string) ([]core.SIPRecord, error)
	}

	// UserDirectory answers whether a user identifier is known.
	UserDirectory interface {
		UserExists(ctx context.Context, id string) (bool, error)
	}

	// UserStore persists new users.
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
	}

	// SIPStore persists new SIP records.
	SIPStore interface {
		CreateSIP(ctx context.Context, rec core.SIPRecord) (int64, error)
	}

	// ExportPublisher announces a newly created SIP to the export pipeline.
	ExportPublisher interface {
		PublishSIPExport(ctx context.Context, id, version int64) error
	}
)
