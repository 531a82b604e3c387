package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sipfolio/internal/core"
)

// PortfolioService computes per-scheme and aggregate SIP summaries. It is
// stateless; concurrent calls need no coordination.
type PortfolioService struct {
	source RecordSource
}

func NewPortfolioService(source RecordSource) *PortfolioService {
	return &PortfolioService{source: source}
}

// Summarize fetches all SIP records for userID in a single bulk read and
// folds them into a portfolio summary. Gateway failures are surfaced as-is,
// without retries; zero records are reported as ErrUserNotFound.
func (s *PortfolioService) Summarize(ctx context.Context, userID string) (core.PortfolioSummary, error) {
	records, err := s.source.FetchRecordsForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserUnknown) {
			return core.PortfolioSummary{}, ErrUserNotFound
		}
		return core.PortfolioSummary{}, fmt.Errorf("fetch records for user: %w", err)
	}

	if len(records) == 0 {
		// The user exists but owns no SIPs. Reported as not found, same
		// as an unknown user; only the log line tells the cases apart.
		slog.InfoContext(ctx, "User has no SIP records", "user_id", userID)
		return core.PortfolioSummary{}, ErrUserNotFound
	}

	summary, err := core.Summarize(records)
	if err != nil {
		return core.PortfolioSummary{}, fmt.Errorf("summarize records: %w", err)
	}

	slog.InfoContext(ctx, "Portfolio summary computed",
		"user_id", userID,
		"records", len(records),
		"schemes", len(summary.Schemes),
		"total_investment", summary.TotalInvestment.Units)

	return summary, nil
}
