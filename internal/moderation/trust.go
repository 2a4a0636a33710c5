package moderation

// AccountSignals is a read-only snapshot of the account fields that feed the
// trust score. It is assembled by the account store; the engine only reads it.
type AccountSignals struct {
	EmailVerified  bool
	PhoneVerified  bool
	AccountAgeDays int
	Reviews        int
	Photos         int
	HelpfulVotes   int
	Strikes        int
	DeletedContent int
	ReportsAgainst int
}

// TrustLevel buckets a trust score into a moderation strictness hint. It is
// currently informational context persisted on audit records; it does not yet
// feed other thresholds.
type TrustLevel string

const (
	TrustStrict  TrustLevel = "STRICT"
	TrustNormal  TrustLevel = "NORMAL"
	TrustRelaxed TrustLevel = "RELAXED"
	TrustMinimal TrustLevel = "MINIMAL"
)

// Trust score weights. Positive signals add, negative signals subtract, and
// account age is capped so old accounts cannot outweigh everything else.
const (
	trustEmailVerified  = 10
	trustPhoneVerified  = 20
	trustPerAgeDay      = 2
	trustAgeCap         = 200
	trustPerReview      = 5
	trustPerPhoto       = 3
	trustPerHelpfulVote = 2
	trustPerStrike      = 50
	trustPerDeleted     = 10
	trustPerReport      = 20
)

// TrustScore derives a non-negative integer summarizing an account's standing.
// It is a pure function: identical signals always yield the identical score.
func TrustScore(sig AccountSignals) int {
	score := 0
	if sig.EmailVerified {
		score += trustEmailVerified
	}
	if sig.PhoneVerified {
		score += trustPhoneVerified
	}

	age := trustPerAgeDay * sig.AccountAgeDays
	if age > trustAgeCap {
		age = trustAgeCap
	}
	score += age

	score += trustPerReview * sig.Reviews
	score += trustPerPhoto * sig.Photos
	score += trustPerHelpfulVote * sig.HelpfulVotes

	score -= trustPerStrike * sig.Strikes
	score -= trustPerDeleted * sig.DeletedContent
	score -= trustPerReport * sig.ReportsAgainst

	if score < 0 {
		return 0
	}
	return score
}

// TrustLevelFor buckets a trust score.
func TrustLevelFor(score int) TrustLevel {
	switch {
	case score < 50:
		return TrustStrict
	case score < 200:
		return TrustNormal
	case score < 500:
		return TrustRelaxed
	default:
		return TrustMinimal
	}
}
