package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sipfolio/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, id, username string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		ID:           id,
		Username:     username,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")

	_, err := repo.CreateUser(context.Background(), core.User{
		ID:           "u-2",
		Username:     "alice",
		PasswordHash: "hash",
	})
	if !errors.Is(err, core.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserExists(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")

	ok, err := repo.UserExists(context.Background(), "u-1")
	if err != nil || !ok {
		t.Fatalf("expected user to exist, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.UserExists(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("expected user to not exist, got ok=%v err=%v", ok, err)
	}
}

func TestGetUser(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")

	u, err := repo.GetUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Username != "alice" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	_, err = repo.GetUser(context.Background(), "ghost")
	if !errors.Is(err, core.ErrUserUnknown) {
		t.Fatalf("expected ErrUserUnknown, got %v", err)
	}
}

func TestFetchRecordsForUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FetchRecordsForUser(context.Background(), "ghost")
	if !errors.Is(err, core.ErrUserUnknown) {
		t.Fatalf("expected ErrUserUnknown, got %v", err)
	}
}

func TestFetchRecordsEmptyForKnownUser(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")

	records, err := repo.FetchRecordsForUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCreateAndFetchSIPsInInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")
	ctx := context.Background()

	schemes := []string{"Equity Fund SIP", "Debt Fund", "Equity Fund SIP"}
	for _, scheme := range schemes {
		_, err := repo.CreateSIP(ctx, core.SIPRecord{
			UserID:        "u-1",
			SchemeName:    scheme,
			MonthlyAmount: core.Money{Units: 5000},
			StartDate:     core.NewDate(2024, 1, 15),
		})
		if err != nil {
			t.Fatalf("create sip: %v", err)
		}
	}

	records, err := repo.FetchRecordsForUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("fetch records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.SchemeName != schemes[i] {
			t.Errorf("record %d scheme = %q, want %q", i, rec.SchemeName, schemes[i])
		}
		if rec.MonthlyAmount.Units != 5000 {
			t.Errorf("record %d amount = %d, want 5000", i, rec.MonthlyAmount.Units)
		}
		if got := rec.StartDate.ISO(); got != "2024-01-15" {
			t.Errorf("record %d start date = %q, want 2024-01-15", i, got)
		}
	}
}

func TestGetSIPByID(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")
	ctx := context.Background()

	id, err := repo.CreateSIP(ctx, core.SIPRecord{
		UserID:        "u-1",
		SchemeName:    "Debt Fund",
		MonthlyAmount: core.Money{Units: 2500},
		StartDate:     core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("create sip: %v", err)
	}

	rec, err := repo.GetSIP(ctx, id)
	if err != nil {
		t.Fatalf("get sip: %v", err)
	}
	if rec.ID != id || rec.SchemeName != "Debt Fund" || rec.MonthlyAmount.Units != 2500 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestExportBookkeeping(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u-1", "alice")
	ctx := context.Background()

	id, err := repo.CreateSIP(ctx, core.SIPRecord{
		UserID:        "u-1",
		SchemeName:    "Equity Fund SIP",
		MonthlyAmount: core.Money{Units: 1000},
		StartDate:     core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create sip: %v", err)
	}

	pending, err := repo.GetPendingExportSIPs(ctx, 10)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("expected pending sip %d, got %+v", id, pending)
	}

	if err := repo.MarkExported(ctx, id); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, err = repo.GetPendingExportSIPs(ctx, 10)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending sips, got %d", len(pending))
	}
}
