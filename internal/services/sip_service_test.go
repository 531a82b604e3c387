package services

import (
	"context"
	"errors"
	"testing"

	"sipfolio/internal/core"
)

type fakeUserDirectory struct {
	known map[string]bool
	err   error
}

func (f *fakeUserDirectory) UserExists(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

type fakeSIPStore struct {
	created []core.SIPRecord
	err     error
}

func (f *fakeSIPStore) CreateSIP(ctx context.Context, rec core.SIPRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, rec)
	return int64(len(f.created)), nil
}

type fakePublisher struct {
	published []int64
	err       error
}

func (f *fakePublisher) PublishSIPExport(ctx context.Context, id, version int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func validSIP() core.SIPRecord {
	return core.SIPRecord{
		UserID:        "u-1",
		SchemeName:    "Equity Fund SIP",
		MonthlyAmount: core.Money{Units: 5000},
		StartDate:     core.NewDate(2024, 1, 1),
	}
}

func TestCreateSIP(t *testing.T) {
	store := &fakeSIPStore{}
	pub := &fakePublisher{}
	svc := NewSIPService(&fakeUserDirectory{known: map[string]bool{"u-1": true}}, store, pub)

	id, err := svc.CreateSIP(context.Background(), validSIP())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.created))
	}
	if len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("expected export message for sip 1, got %v", pub.published)
	}
}

func TestCreateSIPUnknownUser(t *testing.T) {
	store := &fakeSIPStore{}
	svc := NewSIPService(&fakeUserDirectory{known: map[string]bool{}}, store, &fakePublisher{})

	_, err := svc.CreateSIP(context.Background(), validSIP())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("no record should be stored for unknown user")
	}
}

func TestCreateSIPInvalidRecord(t *testing.T) {
	svc := NewSIPService(&fakeUserDirectory{known: map[string]bool{"u-1": true}}, &fakeSIPStore{}, &fakePublisher{})

	rec := validSIP()
	rec.MonthlyAmount = core.Money{Units: 0}
	if _, err := svc.CreateSIP(context.Background(), rec); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	rec = validSIP()
	rec.SchemeName = "   "
	if _, err := svc.CreateSIP(context.Background(), rec); !errors.Is(err, core.ErrEmptyScheme) {
		t.Fatalf("expected ErrEmptyScheme, got %v", err)
	}
}

func TestCreateSIPPublishFailureDoesNotFail(t *testing.T) {
	svc := NewSIPService(
		&fakeUserDirectory{known: map[string]bool{"u-1": true}},
		&fakeSIPStore{},
		&fakePublisher{err: errors.New("broker down")},
	)

	if _, err := svc.CreateSIP(context.Background(), validSIP()); err != nil {
		t.Fatalf("publish failure must not fail creation, got %v", err)
	}
}

func TestCreateSIPNilPublisher(t *testing.T) {
	svc := NewSIPService(&fakeUserDirectory{known: map[string]bool{"u-1": true}}, &fakeSIPStore{}, nil)

	if _, err := svc.CreateSIP(context.Background(), validSIP()); err != nil {
		t.Fatalf("expected ok without publisher, got %v", err)
	}
}
