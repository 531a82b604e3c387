package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sipfolio/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser stores a new user. Duplicate usernames map to
// core.ErrUsernameTaken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	row, err := r.queries.CreateUser(ctx, CreateUserParams{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, core.ErrUsernameTaken
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite", "user_id", row.ID, "username", row.Username)

	return core.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// GetUser retrieves a user by id. Unknown ids map to core.ErrUserUnknown.
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	row, err := r.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserUnknown
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return core.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// UserExists implements services.UserDirectory.
func (r *SQLiteRepository) UserExists(ctx context.Context, id string) (bool, error) {
	count, err := r.queries.CountUserByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("count user: %w", err)
	}
	return count > 0, nil
}

// FetchRecordsForUser implements services.RecordSource. An identifier with
// no matching user yields core.ErrUserUnknown; an existing user with no
// SIPs yields an empty slice.
func (r *SQLiteRepository) FetchRecordsForUser(ctx context.Context, userID string) ([]core.SIPRecord, error) {
	count, err := r.queries.CountUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user: %w", err)
	}
	if count == 0 {
		return nil, core.ErrUserUnknown
	}

	rows, err := r.queries.GetSipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sips by user: %w", err)
	}

	records := make([]core.SIPRecord, len(rows))
	for i, row := range rows {
		rec, err := sipToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("sip %d: %w", row.ID, err)
		}
		records[i] = rec
	}
	return records, nil
}

// CreateSIP stores a new SIP record and returns its id.
func (r *SQLiteRepository) CreateSIP(ctx context.Context, rec core.SIPRecord) (int64, error) {
	row, err := r.queries.CreateSip(ctx, CreateSipParams{
		UserID:        rec.UserID,
		SchemeName:    rec.SchemeName,
		MonthlyAmount: rec.MonthlyAmount.Units,
		StartDate:     rec.StartDate.ISO(),
	})
	if err != nil {
		return 0, fmt.Errorf("create sip: %w", err)
	}

	slog.InfoContext(ctx, "SIP saved to SQLite",
		"id", row.ID,
		"user_id", row.UserID,
		"scheme", row.SchemeName,
		"monthly_amount", row.MonthlyAmount)

	return row.ID, nil
}

// GetSIP retrieves a single SIP record by id.
func (r *SQLiteRepository) GetSIP(ctx context.Context, id int64) (core.SIPRecord, error) {
	row, err := r.queries.GetSip(ctx, id)
	if err != nil {
		return core.SIPRecord{}, fmt.Errorf("get sip by id: %w", err)
	}
	return sipToRecord(row)
}

// GetPendingExportSIPs returns SIP records that have not been mirrored to
// the export ledger yet.
func (r *SQLiteRepository) GetPendingExportSIPs(ctx context.Context, limit int) ([]core.SIPRecord, error) {
	rows, err := r.queries.GetPendingExportSips(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending export sips: %w", err)
	}

	records := make([]core.SIPRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := sipToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("sip %d: %w", row.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarkExported marks a SIP as successfully mirrored to the ledger.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.MarkSipExported(ctx, id); err != nil {
		return fmt.Errorf("mark sip exported: %w", err)
	}
	slog.InfoContext(ctx, "SIP marked as exported", "id", id)
	return nil
}

// MarkExportError marks a SIP as having failed export.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.MarkSipExportError(ctx, id); err != nil {
		return fmt.Errorf("mark sip export error: %w", err)
	}
	slog.WarnContext(ctx, "SIP marked with export error", "id", id)
	return nil
}

func sipToRecord(row Sip) (core.SIPRecord, error) {
	start, err := core.ParseDate(row.StartDate)
	if err != nil {
		return core.SIPRecord{}, fmt.Errorf("stored start_date %q: %w", row.StartDate, err)
	}
	return core.SIPRecord{
		ID:            row.ID,
		UserID:        row.UserID,
		SchemeName:    row.SchemeName,
		MonthlyAmount: core.Money{Units: row.MonthlyAmount},
		StartDate:     start,
	}, nil
}
