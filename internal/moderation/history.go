package moderation

import (
	"context"
	"time"
)

// DefaultViolationWindow is the lookback used when aggregating violation
// history for sanction decisions.
const DefaultViolationWindow = 30 * 24 * time.Hour

// ViolationHistory summarizes an account's automated violations inside the
// window: flagged or rejected decisions, broken down by category and severity.
type ViolationHistory struct {
	Total      int              `json:"total"`
	ByCategory map[string]int   `json:"by_category"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// SevereCount returns the number of SEVERO violations in the window.
func (h ViolationHistory) SevereCount() int {
	return h.BySeverity[SeveritySevero]
}

// HistoryAggregator reads past audit records for an account. Pure read, no
// mutation.
type HistoryAggregator struct {
	audit  AuditStore
	window time.Duration
}

// NewHistoryAggregator builds an aggregator over the audit store. A
// non-positive window falls back to the 30-day default.
func NewHistoryAggregator(audit AuditStore, window time.Duration) *HistoryAggregator {
	if window <= 0 {
		window = DefaultViolationWindow
	}
	return &HistoryAggregator{audit: audit, window: window}
}

// Window returns the configured lookback.
func (a *HistoryAggregator) Window() time.Duration {
	return a.window
}

// Aggregate counts the account's automated violations in the window ending at
// now. APPROVE records are audit trail only and do not count as violations.
func (a *HistoryAggregator) Aggregate(ctx context.Context, accountID uint, now time.Time) (ViolationHistory, error) {
	history := ViolationHistory{
		ByCategory: make(map[string]int),
		BySeverity: make(map[Severity]int),
	}

	records, err := a.audit.QueryByAccount(ctx, accountID, now.Add(-a.window), true)
	if err != nil {
		return history, err
	}

	for _, rec := range records {
		if rec.ActionType == string(ActionApprove) {
			continue
		}
		history.Total++
		if rec.Category != "" && rec.Category != CategoryClean {
			history.ByCategory[rec.Category]++
		}
		if sev := Severity(rec.Severity); sev.Valid() {
			history.BySeverity[sev]++
		}
	}

	return history, nil
}
