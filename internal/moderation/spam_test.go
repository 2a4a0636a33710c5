package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpamDetector_Detect(t *testing.T) {
	t.Parallel()
	d := NewSpamDetector()

	tests := []struct {
		name       string
		text       string
		wantScore  int
		wantSpam   bool
		indicators []string
	}{
		{
			name:      "empty text scores zero",
			text:      "",
			wantScore: 0,
		},
		{
			name:      "normal review is clean",
			text:      "La comida estaba deliciosa y el servicio fue rápido.",
			wantScore: 0,
		},
		{
			name:       "repeated characters alone do not reject",
			text:       "buenísimoooooo",
			wantScore:  spamPointsRepeatedChars,
			indicators: []string{IndicatorRepeatedChars},
		},
		{
			name:       "uppercase run alone does not reject",
			text:       "una oferta INCREIBLES de verdad",
			wantScore:  spamPointsUppercaseRun,
			indicators: []string{IndicatorUppercaseRun},
		},
		{
			name:       "three urls alone do not reject",
			text:       "mira www.ofertas.com y www.gangas.com y www.rebajas.com",
			wantScore:  spamPointsManyURLs,
			indicators: []string{IndicatorManyURLs},
		},
		{
			name:      "two urls stay under the url heuristic",
			text:      "mira www.ofertas.com y www.gangas.com",
			wantScore: 0,
		},
		{
			name:       "digit run plus email crosses the threshold",
			text:       "llama al 5551234567890 o escribe a ventas@promo.example",
			wantScore:  spamPointsLongDigitRun + spamPointsEmailAddress,
			wantSpam:   true,
			indicators: []string{IndicatorLongDigitRun, IndicatorEmailAddress},
		},
		{
			name:       "urls plus repeated chars cross the threshold",
			text:       "gangaaaaaa en www.uno.com www.dos.com www.tres.com",
			wantScore:  spamPointsRepeatedChars + spamPointsManyURLs,
			wantSpam:   true,
			indicators: []string{IndicatorRepeatedChars, IndicatorManyURLs},
		},
		{
			name:      "short digit run is fine",
			text:      "abrimos a las 10:30, mesa para 4",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := d.Detect(tt.text)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantSpam, res.IsSpam)
			assert.Equal(t, tt.indicators, res.Indicators)
		})
	}
}

func TestSpamDetector_UppercaseRunResetsOnLowercase(t *testing.T) {
	t.Parallel()
	d := NewSpamDetector()

	// Nine capitals, a lowercase break, nine more: no single run reaches ten.
	res := d.Detect("ABCDEFGHI x ABCDEFGHI")
	assert.NotContains(t, res.Indicators, IndicatorUppercaseRun)

	res = d.Detect(strings.Repeat("A", uppercaseRunMin))
	assert.Contains(t, res.Indicators, IndicatorUppercaseRun)
}

func TestSpamDetector_ScoreIsOrderInsensitive(t *testing.T) {
	t.Parallel()
	d := NewSpamDetector()

	a := d.Detect("ventas@promo.example 5551234567890")
	b := d.Detect("5551234567890 ventas@promo.example")
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.IsSpam, b.IsSpam)
}
