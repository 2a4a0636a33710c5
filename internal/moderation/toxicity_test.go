package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopScorer(t *testing.T) {
	t.Parallel()
	scores := NoopScorer{}.Score(context.Background(), "anything", "es")
	assert.True(t, scores.UsingBasicFilters)
	assert.Zero(t, scores.Toxicity)
}

func TestPerspectiveScorer_Score(t *testing.T) {
	t.Parallel()

	t.Run("parses attribute scores", func(t *testing.T) {
		t.Parallel()
		var gotBody analyzeRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "secret", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{
				"attributeScores": {
					"TOXICITY": {"summaryScore": {"value": 0.91}},
					"SEVERE_TOXICITY": {"summaryScore": {"value": 0.42}},
					"INSULT": {"summaryScore": {"value": 0.77}},
					"PROFANITY": {"summaryScore": {"value": 0.12}},
					"THREAT": {"summaryScore": {"value": 0.05}}
				}
			}`))
		}))
		defer srv.Close()

		scorer := NewPerspectiveScorer(srv.URL, "secret", time.Second, nil)
		scores := scorer.Score(context.Background(), "texto horrible", "es-MX")

		assert.False(t, scores.UsingBasicFilters)
		assert.InDelta(t, 0.91, scores.Toxicity, 0.001)
		assert.InDelta(t, 0.42, scores.SevereToxicity, 0.001)
		assert.InDelta(t, 0.77, scores.Insult, 0.001)
		assert.InDelta(t, 0.12, scores.Profanity, 0.001)
		assert.InDelta(t, 0.05, scores.Threat, 0.001)

		assert.Equal(t, "texto horrible", gotBody.Comment.Text)
		assert.Equal(t, []string{"es"}, gotBody.Languages)
		assert.Len(t, gotBody.RequestedAttributes, len(requestedAttributes))
	})

	t.Run("missing api key degrades to basic filters", func(t *testing.T) {
		t.Parallel()
		scorer := NewPerspectiveScorer("http://example.invalid", "", time.Second, nil)
		scores := scorer.Score(context.Background(), "texto", "es")
		assert.True(t, scores.UsingBasicFilters)
		assert.Zero(t, scores.Toxicity)
	})

	t.Run("non-200 degrades to basic filters", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		scorer := NewPerspectiveScorer(srv.URL, "secret", time.Second, nil)
		scores := scorer.Score(context.Background(), "texto", "es")
		assert.True(t, scores.UsingBasicFilters)
	})

	t.Run("malformed body degrades to basic filters", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		scorer := NewPerspectiveScorer(srv.URL, "secret", time.Second, nil)
		scores := scorer.Score(context.Background(), "texto", "es")
		assert.True(t, scores.UsingBasicFilters)
	})

	t.Run("unreachable upstream degrades to basic filters", func(t *testing.T) {
		t.Parallel()
		scorer := NewPerspectiveScorer("http://127.0.0.1:1", "secret", 200*time.Millisecond, nil)
		scores := scorer.Score(context.Background(), "texto", "es")
		assert.True(t, scores.UsingBasicFilters)
	})
}

func TestNewPerspectiveScorer_TimeoutDefault(t *testing.T) {
	t.Parallel()
	scorer := NewPerspectiveScorer("http://example.invalid", "k", 0, nil)
	assert.Equal(t, 3*time.Second, scorer.timeout)
}
