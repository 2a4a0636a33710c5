package moderation

import "time"

// SanctionLevel is the account-level penalty attached to a decision, from
// FLAG_FOR_REVIEW (no penalty) through timed mutes to permanent mute or ban.
type SanctionLevel string

const (
	SanctionFlagForReview SanctionLevel = "FLAG_FOR_REVIEW"
	SanctionShortMute     SanctionLevel = "SHORT_MUTE"
	SanctionMediumMute    SanctionLevel = "MEDIUM_MUTE"
	SanctionLongMute      SanctionLevel = "LONG_MUTE"
	SanctionPermanentMute SanctionLevel = "PERMANENT_MUTE"
	SanctionBan           SanctionLevel = "BAN"
)

// Cascade thresholds over the 30-day violation window.
const (
	severeCountForBan     = 3
	totalForPermanentMute = 10
	totalForLongMute      = 7
	totalForMediumMute    = 5
	totalForShortMute     = 3
	shortMuteDuration     = 24 * time.Hour
	mediumMuteDuration    = 3 * 24 * time.Hour
	longMuteDuration      = 7 * 24 * time.Hour
	permanentMuteHorizon  = 100 * 365 * 24 * time.Hour
)

// Strikes returns how many strikes applying this level adds.
func (l SanctionLevel) Strikes() int {
	switch l {
	case SanctionShortMute:
		return 1
	case SanctionMediumMute:
		return 2
	case SanctionLongMute:
		return 3
	case SanctionPermanentMute:
		return 4
	case SanctionBan:
		return 5
	default:
		return 0
	}
}

// MuteDuration returns the mute length for timed and permanent mutes. The
// second result is false for levels that do not mute (FLAG_FOR_REVIEW, BAN).
func (l SanctionLevel) MuteDuration() (time.Duration, bool) {
	switch l {
	case SanctionShortMute:
		return shortMuteDuration, true
	case SanctionMediumMute:
		return mediumMuteDuration, true
	case SanctionLongMute:
		return longMuteDuration, true
	case SanctionPermanentMute:
		return permanentMuteHorizon, true
	default:
		return 0, false
	}
}

// Actionable reports whether the level mutates account state.
func (l SanctionLevel) Actionable() bool {
	return l != SanctionFlagForReview && l != ""
}

// DecideSanction maps accumulated violation history plus the current
// submission's severity to a sanction level. The rules form a deterministic
// cascade evaluated in fixed order; the first matching rule wins, and a
// strictly higher violation count can never yield a lighter sanction.
func DecideSanction(history ViolationHistory, current Severity) SanctionLevel {
	switch {
	case history.SevereCount() >= severeCountForBan:
		return SanctionBan
	case history.Total >= totalForPermanentMute:
		return SanctionPermanentMute
	case history.Total >= totalForLongMute:
		return SanctionLongMute
	case history.Total >= totalForMediumMute:
		return SanctionMediumMute
	case history.Total >= totalForShortMute:
		return SanctionShortMute
	case current == SeveritySevero:
		return SanctionShortMute
	default:
		return SanctionFlagForReview
	}
}
