package moderation

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yml
var lexiconYAML []byte

// DefaultLanguage is used when a submission carries no usable language tag.
const DefaultLanguage = "es"

// LexiconResult is the outcome of a dictionary check. Only the first match in
// the highest severity tier is reported; co-occurring lower-tier matches are
// intentionally not aggregated, since the top tier alone drives downstream
// decisions.
type LexiconResult struct {
	Detected    bool     `json:"detected"`
	Level       Severity `json:"level,omitempty"`
	MatchedTerm string   `json:"matched_term,omitempty"`
}

// tierScanOrder is the fixed scan order; SEVERO always wins over lower tiers.
var tierScanOrder = [3]Severity{SeveritySevero, SeverityModerado, SeverityLeve}

type lexiconFileTier struct {
	Severo   []string `yaml:"severo"`
	Moderado []string `yaml:"moderado"`
	Leve     []string `yaml:"leve"`
}

// Lexicon is a dictionary-based bad-word matcher with one term set per
// severity tier per language. Word-boundary matching over tokenized text
// keeps substrings of unrelated words from matching.
type Lexicon struct {
	languages map[string]map[Severity]map[string]struct{}
}

// NewLexicon builds a Lexicon from the embedded term lists.
func NewLexicon() (*Lexicon, error) {
	var file map[string]lexiconFileTier
	if err := yaml.Unmarshal(lexiconYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded lexicon: %w", err)
	}

	lex := &Lexicon{languages: make(map[string]map[Severity]map[string]struct{}, len(file))}
	for lang, tiers := range file {
		sets := map[Severity]map[string]struct{}{
			SeveritySevero:   termSet(tiers.Severo),
			SeverityModerado: termSet(tiers.Moderado),
			SeverityLeve:     termSet(tiers.Leve),
		}
		lex.languages[strings.ToLower(lang)] = sets
	}
	if _, ok := lex.languages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("embedded lexicon is missing default language %q", DefaultLanguage)
	}
	return lex, nil
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		set[foldTerm(term)] = struct{}{}
	}
	return set
}

// Check scans the text against the language's tier sets in fixed order
// SEVERO, MODERADO, LEVE and returns the first hit. Unknown language tags
// fall back to the default language.
func (l *Lexicon) Check(text, language string) LexiconResult {
	sets, ok := l.languages[normalizeLanguageTag(language)]
	if !ok {
		sets = l.languages[DefaultLanguage]
	}

	tokens := tokenize(text)
	for _, tier := range tierScanOrder {
		terms := sets[tier]
		for _, tok := range tokens {
			if _, hit := terms[tok]; hit {
				return LexiconResult{Detected: true, Level: tier, MatchedTerm: tok}
			}
		}
	}
	return LexiconResult{}
}

// Languages returns the language tags the lexicon carries terms for.
func (l *Lexicon) Languages() []string {
	langs := make([]string, 0, len(l.languages))
	for lang := range l.languages {
		langs = append(langs, lang)
	}
	return langs
}

func normalizeLanguageTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	// "es-MX" and friends collapse to their base language.
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return DefaultLanguage
	}
	return tag
}

var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// tokenize lower-cases, strips punctuation, and folds diacritics so that
// "Estúpido!" matches the listed "estupido".
func tokenize(text string) []string {
	split := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	return strings.Fields(foldDiacritics(split))
}

func foldTerm(term string) string {
	return foldDiacritics(strings.ToLower(strings.TrimSpace(term)))
}

func foldDiacritics(s string) string {
	// NFD decomposition, strip combining marks, recompose.
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(normFunc, s)
	if err != nil {
		return s
	}
	return folded
}
