// Package moderation implements the automated content-moderation and
// progressive-sanction engine: per-submission APPROVE / FLAG_FOR_REVIEW /
// REJECT decisions, and account-level penalty escalation driven by
// accumulated violation history.
package moderation

// Severity is a policy severity tier. Tiers are ordered by strictness:
// LEVE < MODERADO < SEVERO.
type Severity string

const (
	SeverityLeve     Severity = "LEVE"
	SeverityModerado Severity = "MODERADO"
	SeveritySevero   Severity = "SEVERO"
)

// severityRanks gives the fixed ordering used for merges and tier scans.
var severityRanks = map[Severity]int{
	SeverityLeve:     1,
	SeverityModerado: 2,
	SeveritySevero:   3,
}

// Rank returns the numeric strictness of the tier; unknown tiers rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// AtLeast raises s to the floor tier if s ranks below it.
func (s Severity) AtLeast(floor Severity) Severity {
	if s.Rank() < floor.Rank() {
		return floor
	}
	return s
}

// Valid reports whether s is one of the three policy tiers.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// ContentType identifies the kind of user submission being moderated.
type ContentType string

const (
	ContentComment ContentType = "COMMENT"
	ContentRating  ContentType = "RATING"
	ContentReport  ContentType = "REPORT"
	ContentReview  ContentType = "REVIEW"
)

// Violation categories recorded on audit entries.
const (
	CategoryBadWords = "bad_words"
	CategorySpam     = "spam"
	CategoryToxicity = "toxicity"
	CategoryClean    = "clean"
)
