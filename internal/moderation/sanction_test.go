package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyWith(total, severe int) ViolationHistory {
	return ViolationHistory{
		Total:      total,
		BySeverity: map[Severity]int{SeveritySevero: severe},
	}
}

func TestDecideSanction_Cascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history ViolationHistory
		current Severity
		want    SanctionLevel
	}{
		{
			name:    "clean account with mild submission only gets flagged",
			history: historyWith(0, 0),
			current: SeverityLeve,
			want:    SanctionFlagForReview,
		},
		{
			name:    "clean account with severe submission gets a short mute",
			history: historyWith(0, 0),
			current: SeveritySevero,
			want:    SanctionShortMute,
		},
		{
			name:    "three violations in window",
			history: historyWith(3, 0),
			current: SeverityLeve,
			want:    SanctionShortMute,
		},
		{
			name:    "five violations in window",
			history: historyWith(5, 0),
			current: SeverityLeve,
			want:    SanctionMediumMute,
		},
		{
			name:    "seven violations in window",
			history: historyWith(7, 0),
			current: SeverityLeve,
			want:    SanctionLongMute,
		},
		{
			name:    "ten violations in window",
			history: historyWith(10, 0),
			current: SeverityLeve,
			want:    SanctionPermanentMute,
		},
		{
			name:    "three severe violations ban regardless of total",
			history: historyWith(3, 3),
			current: SeverityLeve,
			want:    SanctionBan,
		},
		{
			name:    "severe count beats a lower total rule",
			history: historyWith(12, 4),
			current: SeveritySevero,
			want:    SanctionBan,
		},
		{
			name:    "two severe plus low total falls to the total rules",
			history: historyWith(2, 2),
			current: SeveritySevero,
			want:    SanctionShortMute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DecideSanction(tt.history, tt.current))
		})
	}
}

// sanctionRank orders levels by harshness for the monotonicity check.
var sanctionRank = map[SanctionLevel]int{
	SanctionFlagForReview: 0,
	SanctionShortMute:     1,
	SanctionMediumMute:    2,
	SanctionLongMute:      3,
	SanctionPermanentMute: 4,
	SanctionBan:           5,
}

func TestDecideSanction_MoreViolationsNeverLighter(t *testing.T) {
	t.Parallel()

	for _, current := range []Severity{SeverityLeve, SeverityModerado, SeveritySevero} {
		prev := -1
		for total := 0; total <= 15; total++ {
			level := DecideSanction(historyWith(total, 0), current)
			rank, ok := sanctionRank[level]
			require.True(t, ok, "unknown level %s", level)
			assert.GreaterOrEqual(t, rank, prev,
				"total %d severity %s yielded a lighter sanction", total, current)
			prev = rank
		}
	}
}

func TestSanctionLevel_Strikes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, SanctionFlagForReview.Strikes())
	assert.Equal(t, 1, SanctionShortMute.Strikes())
	assert.Equal(t, 2, SanctionMediumMute.Strikes())
	assert.Equal(t, 3, SanctionLongMute.Strikes())
	assert.Equal(t, 4, SanctionPermanentMute.Strikes())
	assert.Equal(t, 5, SanctionBan.Strikes())
}

func TestSanctionLevel_MuteDuration(t *testing.T) {
	t.Parallel()

	d, ok := SanctionShortMute.MuteDuration()
	require.True(t, ok)
	assert.Equal(t, 24*time.Hour, d)

	d, ok = SanctionMediumMute.MuteDuration()
	require.True(t, ok)
	assert.Equal(t, 3*24*time.Hour, d)

	d, ok = SanctionLongMute.MuteDuration()
	require.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, d)

	d, ok = SanctionPermanentMute.MuteDuration()
	require.True(t, ok)
	assert.Greater(t, d, 50*365*24*time.Hour)

	_, ok = SanctionBan.MuteDuration()
	assert.False(t, ok, "a ban is not a mute")
	_, ok = SanctionFlagForReview.MuteDuration()
	assert.False(t, ok)
}

func TestSanctionLevel_Actionable(t *testing.T) {
	t.Parallel()

	assert.False(t, SanctionFlagForReview.Actionable())
	assert.False(t, SanctionLevel("").Actionable())
	for _, level := range []SanctionLevel{SanctionShortMute, SanctionMediumMute, SanctionLongMute, SanctionPermanentMute, SanctionBan} {
		assert.True(t, level.Actionable(), "%s should mutate account state", level)
	}
}
