package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrustScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  AccountSignals
		want int
	}{
		{
			name: "brand new account scores zero",
			sig:  AccountSignals{},
			want: 0,
		},
		{
			name: "verified contributor",
			sig: AccountSignals{
				EmailVerified:  true,
				PhoneVerified:  true,
				AccountAgeDays: 30,
				Reviews:        4,
				Photos:         2,
				HelpfulVotes:   5,
			},
			// 10 + 20 + 60 + 20 + 6 + 10
			want: 126,
		},
		{
			name: "account age is capped",
			sig:  AccountSignals{AccountAgeDays: 5000},
			want: trustAgeCap,
		},
		{
			name: "strikes drag the score down",
			sig: AccountSignals{
				EmailVerified:  true,
				AccountAgeDays: 100,
				Reviews:        10,
				Strikes:        2,
			},
			// 10 + 200 + 50 - 100
			want: 160,
		},
		{
			name: "score never goes negative",
			sig: AccountSignals{
				Strikes:        5,
				ReportsAgainst: 10,
				DeletedContent: 3,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TrustScore(tt.sig))
		})
	}
}

func TestTrustScore_IsDeterministic(t *testing.T) {
	t.Parallel()
	sig := AccountSignals{EmailVerified: true, AccountAgeDays: 42, Reviews: 7, Strikes: 1}
	first := TrustScore(sig)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, TrustScore(sig))
	}
}

func TestTrustLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  TrustLevel
	}{
		{0, TrustStrict},
		{49, TrustStrict},
		{50, TrustNormal},
		{199, TrustNormal},
		{200, TrustRelaxed},
		{499, TrustRelaxed},
		{500, TrustMinimal},
		{10000, TrustMinimal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrustLevelFor(tt.score), "score %d", tt.score)
	}
}
