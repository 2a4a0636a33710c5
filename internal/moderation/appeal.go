package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"descubre/internal/models"

	"github.com/google/uuid"
)

const maxAppealReasonLen = 2000

// AppealResolver runs the appeal workflow: users open at most one pending
// appeal, an administrator resolves it, and an approved appeal reverses the
// targeted sanction. It is independent from the submission pipeline.
type AppealResolver struct {
	appeals AppealStore
	audit   AuditStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewAppealResolver builds the resolver.
func NewAppealResolver(appeals AppealStore, audit AuditStore, logger *slog.Logger) *AppealResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppealResolver{
		appeals: appeals,
		audit:   audit,
		logger:  logger,
		now:     time.Now,
	}
}

// SubmitInput is a user's request to open an appeal.
type SubmitInput struct {
	UserID    uint
	Type      models.AppealType
	Reason    string
	RecordRef *string // optional: the moderation record being contested
}

// ResolveInput is an administrator's verdict on a pending appeal.
type ResolveInput struct {
	Ref          string
	AdminID      uint
	Approve      bool
	Response     string
	ResetStrikes bool // only honored on approval, and only when explicitly set
}

// Submit opens an appeal. The store rejects a second PENDING appeal for the
// same account with a conflict error; nothing is written in that case.
func (r *AppealResolver) Submit(ctx context.Context, in SubmitInput) (*models.Appeal, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, models.NewValidationError("Appeal reason is required")
	}
	if len(reason) > maxAppealReasonLen {
		return nil, models.NewValidationError(fmt.Sprintf("Appeal reason too long (max %d characters)", maxAppealReasonLen))
	}
	if in.Type != models.AppealTypeMute && in.Type != models.AppealTypeBan {
		return nil, models.NewValidationError("Appeal type must be MUTE or BAN")
	}

	appeal := &models.Appeal{
		Ref:       uuid.NewString(),
		UserID:    in.UserID,
		RecordRef: in.RecordRef,
		Type:      in.Type,
		Reason:    reason,
		Status:    models.AppealStatusPending,
	}
	if err := r.appeals.Create(ctx, appeal); err != nil {
		return nil, err
	}

	if in.RecordRef != nil {
		if err := r.audit.SetAppealState(ctx, *in.RecordRef, models.AppealStatePending); err != nil {
			r.logger.WarnContext(ctx, "failed to mark record as appealed",
				slog.String("record_ref", *in.RecordRef), slog.String("error", err.Error()))
		}
	}

	r.logger.InfoContext(ctx, "appeal submitted",
		slog.String("ref", appeal.Ref),
		slog.Uint64("account_id", uint64(in.UserID)),
		slog.String("type", string(in.Type)),
	)
	return appeal, nil
}

// Resolve closes a pending appeal with APPROVED or REJECTED. Both outcomes
// are terminal. Approval lifts the targeted sanction in the same storage
// transaction that records the verdict; strike counts are reset only when the
// administrator explicitly asks for it. Rejection records the response and
// changes nothing else.
func (r *AppealResolver) Resolve(ctx context.Context, in ResolveInput) (*models.Appeal, error) {
	appeal, err := r.appeals.GetByRef(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	if appeal.Status != models.AppealStatusPending {
		return nil, models.NewConflictError("Appeal is already resolved")
	}

	status := models.AppealStatusRejected
	if in.Approve {
		status = models.AppealStatusApproved
	}

	now := r.now()
	appeal.Status = status
	appeal.AdminResponse = in.Response
	appeal.ResolvedByID = &in.AdminID
	appeal.ResolvedAt = &now

	var lift func(context.Context, AccountStore) error
	if in.Approve {
		lift = func(ctx context.Context, accounts AccountStore) error {
			return accounts.LiftSanction(ctx, appeal.UserID, appeal.Type, in.ResetStrikes)
		}
	}
	if err := r.appeals.Resolve(ctx, appeal, lift); err != nil {
		return nil, fmt.Errorf("resolve appeal %s: %w", appeal.Ref, err)
	}

	if appeal.RecordRef != nil {
		state := models.AppealStateRejected
		if in.Approve {
			state = models.AppealStateApproved
		}
		if err := r.audit.SetAppealState(ctx, *appeal.RecordRef, state); err != nil {
			r.logger.WarnContext(ctx, "failed to update record appeal state",
				slog.String("record_ref", *appeal.RecordRef), slog.String("error", err.Error()))
		}
	}

	AppealsResolved.WithLabelValues(string(status)).Inc()
	r.logger.InfoContext(ctx, "appeal resolved",
		slog.String("ref", appeal.Ref),
		slog.String("status", string(status)),
		slog.Uint64("account_id", uint64(appeal.UserID)),
		slog.Bool("strikes_reset", in.Approve && in.ResetStrikes),
	)
	return appeal, nil
}

// ListForUser returns the account's appeals, newest first.
func (r *AppealResolver) ListForUser(ctx context.Context, userID uint) ([]models.Appeal, error) {
	return r.appeals.ListByUser(ctx, userID)
}

// ListPending returns the admin queue of open appeals.
func (r *AppealResolver) ListPending(ctx context.Context, limit, offset int) ([]models.Appeal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return r.appeals.ListPending(ctx, limit, offset)
}
