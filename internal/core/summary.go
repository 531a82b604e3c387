package core

import "fmt"

// SchemeSummary aggregates all of a user's SIP records sharing one scheme.
type SchemeSummary struct {
	SchemeName      string
	TotalInvestment Money
	// MonthsInvested counts SIP records, one record per monthly
	// contribution unit. It is not derived from start_date.
	MonthsInvested int
}

// PortfolioSummary is the grouped report for one user. Schemes appear in
// the order their scheme name was first encountered in the record sequence.
type PortfolioSummary struct {
	Schemes         []SchemeSummary
	TotalInvestment Money
}

// Summarize folds a user's SIP records into a per-scheme and aggregate
// report. Grouping is by exact, case-sensitive scheme name. Every record
// is validated before any aggregation happens; a malformed record fails
// the whole summary rather than being dropped.
func Summarize(records []SIPRecord) (PortfolioSummary, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return PortfolioSummary{}, fmt.Errorf("record %d (scheme %q): %w", i, r.SchemeName, err)
		}
	}

	var summary PortfolioSummary
	index := make(map[string]int, len(records))
	for _, r := range records {
		i, seen := index[r.SchemeName]
		if !seen {
			i = len(summary.Schemes)
			index[r.SchemeName] = i
			summary.Schemes = append(summary.Schemes, SchemeSummary{SchemeName: r.SchemeName})
		}
		summary.Schemes[i].TotalInvestment = summary.Schemes[i].TotalInvestment.Add(r.MonthlyAmount)
		summary.Schemes[i].MonthsInvested++
		summary.TotalInvestment = summary.TotalInvestment.Add(r.MonthlyAmount)
	}

	return summary, nil
}
