package moderation

import (
	"regexp"
	"unicode"
)

// Spam heuristic weights and the rejection threshold. These values are part
// of the moderation policy surface; changing them changes which content is
// rejected.
const (
	spamPointsRepeatedChars = 20
	spamPointsUppercaseRun  = 15
	spamPointsManyURLs      = 30
	spamPointsLongDigitRun  = 25
	spamPointsEmailAddress  = 25

	// SpamThreshold is the score at or above which content counts as spam.
	SpamThreshold = 50

	repeatedCharMin = 5
	uppercaseRunMin = 10
	urlCountMin     = 3 // "more than 2"
	digitRunMin     = 10
)

// Spam indicator names reported alongside the score.
const (
	IndicatorRepeatedChars = "repeated_chars"
	IndicatorUppercaseRun  = "excessive_caps"
	IndicatorManyURLs      = "multiple_urls"
	IndicatorLongDigitRun  = "long_number"
	IndicatorEmailAddress  = "email_address"
)

var (
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+|\b[a-z0-9-]+\.(?:com|net|org|io|co|es|mx|ar)\b`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// SpamResult carries the outcome of the heuristic spam scorer.
type SpamResult struct {
	IsSpam     bool     `json:"is_spam"`
	Score      int      `json:"score"`
	Indicators []string `json:"indicators,omitempty"`
}

// SpamDetector scores text with five independent, order-insensitive
// heuristics, each awarding fixed points when triggered.
type SpamDetector struct{}

// NewSpamDetector returns a SpamDetector.
func NewSpamDetector() *SpamDetector {
	return &SpamDetector{}
}

// Detect runs all heuristics and sums the points of those that trigger.
func (d *SpamDetector) Detect(text string) SpamResult {
	res := SpamResult{}
	if text == "" {
		return res
	}

	if hasRunOfSameRune(text, repeatedCharMin) {
		res.Score += spamPointsRepeatedChars
		res.Indicators = append(res.Indicators, IndicatorRepeatedChars)
	}
	if hasUppercaseRun(text, uppercaseRunMin) {
		res.Score += spamPointsUppercaseRun
		res.Indicators = append(res.Indicators, IndicatorUppercaseRun)
	}
	if len(urlPattern.FindAllString(text, urlCountMin)) >= urlCountMin {
		res.Score += spamPointsManyURLs
		res.Indicators = append(res.Indicators, IndicatorManyURLs)
	}
	if hasDigitRun(text, digitRunMin) {
		res.Score += spamPointsLongDigitRun
		res.Indicators = append(res.Indicators, IndicatorLongDigitRun)
	}
	if emailPattern.MatchString(text) {
		res.Score += spamPointsEmailAddress
		res.Indicators = append(res.Indicators, IndicatorEmailAddress)
	}

	res.IsSpam = res.Score >= SpamThreshold
	return res
}

func hasRunOfSameRune(text string, min int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= min {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func hasUppercaseRun(text string, min int) bool {
	run := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			run++
			if run >= min {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func hasDigitRun(text string, min int) bool {
	run := 0
	for _, r := range text {
		if unicode.IsDigit(r) {
			run++
			if run >= min {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
