// Package memory is an in-memory RecordExporter for tests and runs without
// a configured ledger.
package memory

import (
	"context"
	"strconv"
	"sync"

	"sipfolio/internal/core"
	ports "sipfolio/internal/export"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.SIPRecord
}

var _ ports.RecordExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Append(ctx context.Context, rec core.SIPRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, rec)
	return strconv.Itoa(len(e.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (e *Exporter) Rows() []core.SIPRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.SIPRecord, len(e.rows))
	copy(out, e.rows)
	return out
}
