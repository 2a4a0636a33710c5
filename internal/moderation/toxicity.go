package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ToxicityScores are per-attribute probabilities in [0,1] from the external
// scoring service. UsingBasicFilters is set whenever the external service was
// not consulted (no credential, timeout, or upstream error) and all scores
// are zero; callers then rely on the local detectors alone.
type ToxicityScores struct {
	Toxicity       float64 `json:"toxicity"`
	SevereToxicity float64 `json:"severe_toxicity"`
	Insult         float64 `json:"insult"`
	Profanity      float64 `json:"profanity"`
	Threat         float64 `json:"threat"`

	UsingBasicFilters bool `json:"using_basic_filters"`
}

// ToxicityScorer is the optional external toxicity capability. Implementations
// must degrade to zero scores rather than return errors: the submission path
// never fails because the scorer is unavailable.
type ToxicityScorer interface {
	Score(ctx context.Context, text, language string) ToxicityScores
}

// NoopScorer is the default scorer used when no external service is
// configured. It always reports the zero-fallback.
type NoopScorer struct{}

// Score returns zero scores with UsingBasicFilters set.
func (NoopScorer) Score(context.Context, string, string) ToxicityScores {
	return ToxicityScores{UsingBasicFilters: true}
}

// PerspectiveScorer calls a Perspective-style comment-analysis endpoint with a
// bounded timeout.
type PerspectiveScorer struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *retryablehttp.Client
	logger   *slog.Logger
}

// NewPerspectiveScorer builds a scorer for the given endpoint and key. A
// non-positive timeout defaults to 3 seconds.
func NewPerspectiveScorer(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *PerspectiveScorer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.HTTPClient.Timeout = timeout
	client.Logger = nil

	return &PerspectiveScorer{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
		client:   client,
		logger:   logger,
	}
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	Languages           []string                   `json:"languages"`
	RequestedAttributes map[string]json.RawMessage `json:"requestedAttributes"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

var requestedAttributes = []string{"TOXICITY", "SEVERE_TOXICITY", "INSULT", "PROFANITY", "THREAT"}

// Score requests the five attributes from the upstream service. Any failure
// degrades to the zero-fallback; it is logged but never surfaced.
func (s *PerspectiveScorer) Score(ctx context.Context, text, language string) ToxicityScores {
	fallback := ToxicityScores{UsingBasicFilters: true}
	if s.apiKey == "" || s.endpoint == "" {
		return fallback
	}

	reqBody := analyzeRequest{Languages: []string{normalizeLanguageTag(language)}}
	reqBody.Comment.Text = text
	reqBody.RequestedAttributes = make(map[string]json.RawMessage, len(requestedAttributes))
	for _, attr := range requestedAttributes {
		reqBody.RequestedAttributes[attr] = json.RawMessage(`{}`)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := fmt.Sprintf("%s?key=%s", s.endpoint, s.apiKey)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.warn(ctx, "toxicity upstream unavailable, using basic filters", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.warn(ctx, "toxicity upstream returned non-200, using basic filters",
			fmt.Errorf("status %d", resp.StatusCode))
		return fallback
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		s.warn(ctx, "toxicity response decode failed, using basic filters", err)
		return fallback
	}

	return ToxicityScores{
		Toxicity:       parsed.AttributeScores["TOXICITY"].SummaryScore.Value,
		SevereToxicity: parsed.AttributeScores["SEVERE_TOXICITY"].SummaryScore.Value,
		Insult:         parsed.AttributeScores["INSULT"].SummaryScore.Value,
		Profanity:      parsed.AttributeScores["PROFANITY"].SummaryScore.Value,
		Threat:         parsed.AttributeScores["THREAT"].SummaryScore.Value,
	}
}

func (s *PerspectiveScorer) warn(ctx context.Context, msg string, err error) {
	ToxicityFallbacks.Inc()
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, slog.String("error", err.Error()))
	}
}
