package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"descubre/internal/models"
	"descubre/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Action is the per-submission moderation outcome.
type Action string

const (
	ActionApprove       Action = "APPROVE"
	ActionFlagForReview Action = "FLAG_FOR_REVIEW"
	ActionReject        Action = "REJECT"
)

// Toxicity score thresholds feeding the severity merge.
const (
	toxicitySeveroThreshold   = 0.85
	toxicityModeradoThreshold = 0.65
)

const snippetMaxLen = 280

// Submission is one piece of user-submitted text entering the pipeline.
type Submission struct {
	Text        string
	AccountID   uint
	ContentType ContentType
	ContentID   string
	Language    string
}

// SanctionOutcome describes the account sanction a decision triggered.
type SanctionOutcome struct {
	Level       SanctionLevel `json:"level"`
	Reason      string        `json:"reason"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
	StrikeCount int           `json:"strike_count"`
}

// Decision is the caller-visible moderation result. A REJECT is not an
// error: it carries the reason, severity, and a durable record reference the
// user can cite in an appeal.
type Decision struct {
	Approved  bool             `json:"approved"`
	Action    Action           `json:"action"`
	Severity  Severity         `json:"severity"`
	Reason    string           `json:"reason"`
	RecordRef string           `json:"record_ref,omitempty"`
	Sanction  *SanctionOutcome `json:"sanction,omitempty"`

	Lexicon    LexiconResult  `json:"lexicon"`
	Spam       SpamResult     `json:"spam"`
	Toxicity   ToxicityScores `json:"toxicity"`
	TrustScore int            `json:"trust_score"`
}

// CheckResult is the outcome of a detector-only run (no history, no
// persistence, no sanctions). Used for admin previews.
type CheckResult struct {
	Severity     Severity       `json:"severity"`
	ShouldReject bool           `json:"should_reject"`
	Lexicon      LexiconResult  `json:"lexicon"`
	Spam         SpamResult     `json:"spam"`
	Toxicity     ToxicityScores `json:"toxicity"`
}

// Pipeline composes the detectors, the history aggregator, and the sanction
// machinery into the per-submission moderation flow. One pipeline instance is
// shared across requests; it holds no per-submission state.
type Pipeline struct {
	accounts AccountStore
	audit    AuditStore
	history  *HistoryAggregator
	lexicon  *Lexicon
	spam     *SpamDetector
	scorer   ToxicityScorer
	// scorerGate, when set, decides per account whether the external scorer
	// runs; accounts outside the rollout fall back to the zero scorer.
	scorerGate func(accountID uint) bool
	logger     *slog.Logger
	now        func() time.Time
}

// PipelineOption customizes pipeline construction.
type PipelineOption func(*Pipeline)

// WithToxicityScorer installs an external toxicity scorer. Without it the
// pipeline runs on the zero-fallback NoopScorer.
func WithToxicityScorer(s ToxicityScorer) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithToxicityGate installs a per-account rollout gate for the external
// scorer. Used to ramp the toxicity API gradually via feature flags.
func WithToxicityGate(gate func(accountID uint) bool) PipelineOption {
	return func(p *Pipeline) {
		p.scorerGate = gate
	}
}

// WithViolationWindow overrides the 30-day history window.
func WithViolationWindow(window time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.history = NewHistoryAggregator(p.audit, window)
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline builds the moderation pipeline.
func NewPipeline(accounts AccountStore, audit AuditStore, lexicon *Lexicon, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		accounts: accounts,
		audit:    audit,
		history:  NewHistoryAggregator(audit, DefaultViolationWindow),
		lexicon:  lexicon,
		spam:     NewSpamDetector(),
		scorer:   NoopScorer{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Moderate runs the full history-aware decision flow for one submission.
//
// The moderation record is durably written before any sanction is applied,
// and the sanction attach on the record is the idempotency guard: a retried
// submission can never apply a sanction twice, nor leave a sanction without
// its audit record. A persistence failure is fatal for the submission.
func (p *Pipeline) Moderate(ctx context.Context, sub Submission) (*Decision, error) {
	span, ctx := observability.NewSpan(ctx, "moderation.pipeline")
	defer span.End()
	span.AddAttributes(
		attribute.String("content_type", string(sub.ContentType)),
		attribute.Int64("account_id", int64(sub.AccountID)),
	)

	if strings.TrimSpace(sub.Text) == "" {
		return nil, models.NewValidationErrorWithCode(models.CodeEmptyContent, "Text is required")
	}

	now := p.now()

	// Existing sanctions short-circuit the whole analysis.
	state, err := p.accounts.GetSanctionState(ctx, sub.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load sanction state: %w", err)
	}
	if state.IsBanned {
		Decisions.WithLabelValues(string(ActionReject)).Inc()
		return &Decision{
			Action:   ActionReject,
			Severity: SeveritySevero,
			Reason:   rejectionReason(models.CodeAccountBanned, state.BanReason),
		}, nil
	}
	if state.MutedAt(now) {
		Decisions.WithLabelValues(string(ActionReject)).Inc()
		return &Decision{
			Action:   ActionReject,
			Severity: SeveritySevero,
			Reason:   rejectionReason(models.CodeAccountMuted, state.MuteReason),
		}, nil
	}

	signals, err := p.accounts.GetSignals(ctx, sub.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load account signals: %w", err)
	}

	history, err := p.history.Aggregate(ctx, sub.AccountID, now)
	if err != nil {
		return nil, fmt.Errorf("aggregate violation history: %w", err)
	}

	scorer := p.scorer
	if p.scorerGate != nil && !p.scorerGate(sub.AccountID) {
		scorer = NoopScorer{}
	}

	check := p.runDetectors(ctx, sub.Text, sub.Language, scorer)
	trust := TrustScore(signals)
	level := DecideSanction(history, check.Severity)

	decision := &Decision{
		Severity:   check.Severity,
		Lexicon:    check.Lexicon,
		Spam:       check.Spam,
		Toxicity:   check.Toxicity,
		TrustScore: trust,
	}

	switch {
	case check.ShouldReject:
		decision.Action = ActionReject
	case check.Severity != SeverityLeve:
		decision.Action = ActionFlagForReview
	default:
		decision.Action = ActionApprove
		decision.Approved = true
	}
	decision.Reason = describeFindings(check)

	rec := p.buildRecord(sub, decision, check, signals, state, history, now)
	if err := p.audit.Append(ctx, rec); err != nil {
		// Content must never be accepted without a durable decision record.
		return nil, fmt.Errorf("persist moderation record: %w", err)
	}
	decision.RecordRef = rec.Ref

	if check.ShouldReject && level.Actionable() {
		outcome, err := p.applySanction(ctx, sub.AccountID, rec.Ref, level, decision.Reason, now)
		if err != nil {
			return nil, err
		}
		decision.Sanction = outcome
	}

	Decisions.WithLabelValues(string(decision.Action)).Inc()
	p.logger.InfoContext(ctx, "moderation decision",
		slog.String("action", string(decision.Action)),
		slog.String("severity", string(decision.Severity)),
		slog.String("record_ref", decision.RecordRef),
		slog.Uint64("account_id", uint64(sub.AccountID)),
		slog.String("content_type", string(sub.ContentType)),
		slog.Int("spam_score", check.Spam.Score),
		slog.Int("trust_score", trust),
	)

	return decision, nil
}

// Check runs only the detectors and the severity merge. No history lookup, no
// record, no sanction. The admin UI uses this for previewing policy behavior.
func (p *Pipeline) Check(ctx context.Context, text, language string) (*CheckResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationErrorWithCode(models.CodeEmptyContent, "Text is required")
	}
	check := p.runDetectors(ctx, text, language, p.scorer)
	return &check, nil
}

// runDetectors executes the three detectors concurrently; they share no
// mutable state. Only the toxicity scorer can block, and it bounds itself.
func (p *Pipeline) runDetectors(ctx context.Context, text, language string, scorer ToxicityScorer) CheckResult {
	var (
		wg  sync.WaitGroup
		res CheckResult
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		defer observeDetector("lexicon")()
		res.Lexicon = p.lexicon.Check(text, language)
	}()
	go func() {
		defer wg.Done()
		defer observeDetector("spam")()
		res.Spam = p.spam.Detect(text)
	}()
	go func() {
		defer wg.Done()
		defer observeDetector("toxicity")()
		res.Toxicity = scorer.Score(ctx, text, language)
	}()
	wg.Wait()

	res.Severity = mergeSeverity(res.Lexicon, res.Spam, res.Toxicity)
	res.ShouldReject = (res.Lexicon.Detected && res.Lexicon.Level == SeveritySevero) ||
		res.Spam.IsSpam ||
		res.Toxicity.Toxicity >= toxicitySeveroThreshold
	return res
}

// mergeSeverity folds the detector outputs into one tier, highest wins.
func mergeSeverity(lex LexiconResult, spam SpamResult, tox ToxicityScores) Severity {
	severity := SeverityLeve
	if lex.Detected {
		severity = severity.AtLeast(lex.Level)
	}
	if spam.IsSpam {
		severity = severity.AtLeast(SeverityModerado)
	}
	switch {
	case tox.Toxicity >= toxicitySeveroThreshold:
		severity = severity.AtLeast(SeveritySevero)
	case tox.Toxicity >= toxicityModeradoThreshold:
		severity = severity.AtLeast(SeverityModerado)
	}
	return severity
}

func (p *Pipeline) applySanction(ctx context.Context, accountID uint, recordRef string, level SanctionLevel, reason string, now time.Time) (*SanctionOutcome, error) {
	var expiresAt *time.Time
	if d, muted := level.MuteDuration(); muted {
		t := now.Add(d)
		expiresAt = &t
	}

	// The attach is the idempotency gate: only the caller that flips the
	// record from "no sanction" to "sanction" mutates the account.
	won, err := p.audit.AttachSanction(ctx, recordRef, level, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("attach sanction to record %s: %w", recordRef, err)
	}
	if !won {
		p.logger.WarnContext(ctx, "sanction already attached, skipping apply",
			slog.String("record_ref", recordRef))
		return &SanctionOutcome{Level: level, Reason: reason, ExpiresAt: expiresAt}, nil
	}

	state, err := p.accounts.ApplySanction(ctx, accountID, level, reason, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("apply sanction %s to account %d: %w", level, accountID, err)
	}

	SanctionsApplied.WithLabelValues(string(level)).Inc()
	p.logger.InfoContext(ctx, "sanction applied",
		slog.String("level", string(level)),
		slog.Uint64("account_id", uint64(accountID)),
		slog.String("record_ref", recordRef),
		slog.Int("strike_count", state.StrikeCount),
	)

	return &SanctionOutcome{
		Level:       level,
		Reason:      reason,
		ExpiresAt:   expiresAt,
		StrikeCount: state.StrikeCount,
	}, nil
}

func (p *Pipeline) buildRecord(sub Submission, decision *Decision, check CheckResult, signals AccountSignals, state models.SanctionState, history ViolationHistory, now time.Time) *models.ModerationRecord {
	issues := make([]string, 0, 4)
	category := CategoryClean
	if check.Lexicon.Detected {
		category = CategoryBadWords
		issues = append(issues, "bad_word:"+check.Lexicon.MatchedTerm)
	}
	if check.Spam.IsSpam {
		if category == CategoryClean {
			category = CategorySpam
		}
		issues = append(issues, check.Spam.Indicators...)
	}
	if check.Toxicity.Toxicity >= toxicityModeradoThreshold {
		if category == CategoryClean {
			category = CategoryToxicity
		}
		issues = append(issues, "toxicity_high")
	}

	snippet := sub.Text
	if len(snippet) > snippetMaxLen {
		snippet = snippet[:snippetMaxLen]
	}

	return &models.ModerationRecord{
		Ref:                  uuid.NewString(),
		UserID:               sub.AccountID,
		ActionType:           string(decision.Action),
		Reason:               decision.Reason,
		Severity:             string(decision.Severity),
		Category:             category,
		ContentType:          string(sub.ContentType),
		ContentID:            sub.ContentID,
		Snippet:              snippet,
		DetectedIssues:       strings.Join(issues, ","),
		ToxicityScore:        check.Toxicity.Toxicity,
		SpamScore:            check.Spam.Score,
		TrustScore:           decision.TrustScore,
		TrustLevel:           string(TrustLevelFor(decision.TrustScore)),
		StrikesAtDecision:    state.StrikeCount,
		ViolationsInWindow:   history.Total,
		AccountAgeDaysAtTime: signals.AccountAgeDays,
		Automated:            true,
		CreatedAt:            now,
	}
}

func describeFindings(check CheckResult) string {
	switch {
	case check.Lexicon.Detected && check.Lexicon.Level == SeveritySevero:
		return fmt.Sprintf("prohibited term detected (%s)", check.Lexicon.MatchedTerm)
	case check.Spam.IsSpam:
		return fmt.Sprintf("spam detected (score %d: %s)", check.Spam.Score, strings.Join(check.Spam.Indicators, ", "))
	case check.Toxicity.Toxicity >= toxicitySeveroThreshold:
		return fmt.Sprintf("toxic content (score %.2f)", check.Toxicity.Toxicity)
	case check.Lexicon.Detected:
		return fmt.Sprintf("offensive term detected (%s)", check.Lexicon.MatchedTerm)
	case check.Toxicity.Toxicity >= toxicityModeradoThreshold:
		return fmt.Sprintf("potentially toxic content (score %.2f)", check.Toxicity.Toxicity)
	default:
		return "no issues detected"
	}
}

func rejectionReason(code, detail string) string {
	if detail == "" {
		return code
	}
	return code + ": " + detail
}

func observeDetector(name string) func() {
	start := time.Now()
	return func() {
		DetectorLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}
