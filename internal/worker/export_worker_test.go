package worker

import (
	"context"
	"errors"
	"testing"

	"sipfolio/internal/amqp"
	"sipfolio/internal/core"
	"sipfolio/internal/export/memory"
)

type fakeStore struct {
	sips         map[int64]core.SIPRecord
	pending      []int64
	exported     []int64
	exportErrors []int64
}

func (f *fakeStore) GetSIP(ctx context.Context, id int64) (core.SIPRecord, error) {
	rec, ok := f.sips[id]
	if !ok {
		return core.SIPRecord{}, errors.New("no such sip")
	}
	return rec, nil
}

func (f *fakeStore) GetPendingExportSIPs(ctx context.Context, limit int) ([]core.SIPRecord, error) {
	var out []core.SIPRecord
	for _, id := range f.pending {
		if len(out) >= limit {
			break
		}
		out = append(out, f.sips[id])
	}
	return out, nil
}

func (f *fakeStore) MarkExported(ctx context.Context, id int64) error {
	f.exported = append(f.exported, id)
	return nil
}

func (f *fakeStore) MarkExportError(ctx context.Context, id int64) error {
	f.exportErrors = append(f.exportErrors, id)
	return nil
}

func testRecord(id int64) core.SIPRecord {
	return core.SIPRecord{
		ID:            id,
		UserID:        "u-1",
		SchemeName:    "Equity Fund SIP",
		MonthlyAmount: core.Money{Units: 5000},
		StartDate:     core.NewDate(2024, 1, 1),
	}
}

func TestHandleExportMessage(t *testing.T) {
	store := &fakeStore{sips: map[int64]core.SIPRecord{7: testRecord(7)}}
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 10)

	err := w.HandleExportMessage(context.Background(), amqp.NewSIPExportMessage(7, 1))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(exporter.Rows()) != 1 {
		t.Fatalf("expected 1 exported row, got %d", len(exporter.Rows()))
	}
	if len(store.exported) != 1 || store.exported[0] != 7 {
		t.Fatalf("expected sip 7 marked exported, got %v", store.exported)
	}
}

func TestHandleExportMessageMissingSIP(t *testing.T) {
	w := NewExportWorker(&fakeStore{sips: map[int64]core.SIPRecord{}}, memory.New(), 10)

	err := w.HandleExportMessage(context.Background(), amqp.NewSIPExportMessage(99, 1))
	if err == nil {
		t.Fatal("expected error for unknown sip")
	}
}

type failingExporter struct{}

func (failingExporter) Append(ctx context.Context, rec core.SIPRecord) (string, error) {
	return "", errors.New("ledger unavailable")
}

func TestHandleExportMessageMarksErrorOnFailure(t *testing.T) {
	store := &fakeStore{sips: map[int64]core.SIPRecord{7: testRecord(7)}}
	w := NewExportWorker(store, failingExporter{}, 10)

	err := w.HandleExportMessage(context.Background(), amqp.NewSIPExportMessage(7, 1))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.exportErrors) != 1 || store.exportErrors[0] != 7 {
		t.Fatalf("expected sip 7 marked with export error, got %v", store.exportErrors)
	}
}

func TestProcessPendingExports(t *testing.T) {
	store := &fakeStore{
		sips:    map[int64]core.SIPRecord{1: testRecord(1), 2: testRecord(2)},
		pending: []int64{1, 2},
	}
	exporter := memory.New()
	w := NewExportWorker(store, exporter, 10)

	if err := w.ProcessPendingExports(context.Background()); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(exporter.Rows()) != 2 {
		t.Fatalf("expected 2 exported rows, got %d", len(exporter.Rows()))
	}
	if len(store.exported) != 2 {
		t.Fatalf("expected 2 marked exported, got %v", store.exported)
	}
}

func TestProcessPendingExportsRespectsBatchSize(t *testing.T) {
	store := &fakeStore{
		sips:    map[int64]core.SIPRecord{1: testRecord(1), 2: testRecord(2), 3: testRecord(3)},
		pending: []int64{1, 2, 3},
	}
	w := NewExportWorker(store, memory.New(), 2)

	if err := w.ProcessPendingExports(context.Background()); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(store.exported) != 2 {
		t.Fatalf("expected batch of 2, got %v", store.exported)
	}
}
