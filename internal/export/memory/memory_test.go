package memory

import (
	"context"
	"testing"

	"sipfolio/internal/core"
)

func TestAppendAndRows(t *testing.T) {
	e := New()
	ctx := context.Background()

	rec := core.SIPRecord{
		UserID:        "u-1",
		SchemeName:    "Equity Fund SIP",
		MonthlyAmount: core.Money{Units: 5000},
		StartDate:     core.NewDate(2024, 1, 1),
	}

	ref, err := e.Append(ctx, rec)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "1" {
		t.Errorf("ref = %q, want \"1\"", ref)
	}

	rows := e.Rows()
	if len(rows) != 1 || rows[0].SchemeName != "Equity Fund SIP" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	e := New()
	_, err := e.Append(context.Background(), core.SIPRecord{UserID: "u-1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(e.Rows()) != 0 {
		t.Fatal("invalid record must not be stored")
	}
}
