package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/wizard"
)

// SubmissionState is the lifecycle of one submit attempt.
type SubmissionState string

const (
	StateIdle         SubmissionState = "idle"
	StateSubmitting   SubmissionState = "submitting"
	StateSucceeded    SubmissionState = "succeeded"
	StateFailed       SubmissionState = "failed"
	StateAuthRequired SubmissionState = "auth_required"

	// stateResumed is only ever published to the audit trail.
	stateResumed SubmissionState = "resumed"
)

// ErrFlowClosed is returned by Submit once the visitor's flow has been torn down.
var ErrFlowClosed = errors.New("submission flow closed")

// Submission is the outcome handed back to the UI. Redirect, when set, is the
// navigation the caller must perform.
type Submission struct {
	State    SubmissionState `json:"state"`
	OrderID  string          `json:"orderId,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Message  string          `json:"message,omitempty"`
	// Err is the failure behind StateFailed.
	Err error `json:"-"`
}

// Resume is what ResumeAfterAuth hands back to the wizard.
type Resume struct {
	Draft domain.OrderDraft
	// HadAttachments is set when the saved draft had files that could not be kept.
	HadAttachments bool
}

// CredentialSource exposes the current bearer token.
type CredentialSource interface {
	Credential() string
}

// DraftKeeper is the snapshot store used across the login round trip.
type DraftKeeper interface {
	Save(ctx context.Context, d domain.OrderDraft)
	Load(ctx context.Context) (domain.DraftSnapshot, bool)
	Clear(ctx context.Context)
}

// OrderCreator submits a finished draft to the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, draft domain.OrderDraft, idempotencyKey string) (*domain.Order, error)
}

// SubmissionFlow drives one visitor's submit and resume. The lock is not held
// across the backend call; a completion that arrives after Close is dropped.
type SubmissionFlow struct {
	visitorID string
	creds     CredentialSource
	orders    OrderCreator
	drafts    DraftKeeper
	audit     ports.AuditSink
	log       zerolog.Logger

	mu       sync.Mutex
	state    SubmissionState
	closed   bool
	resuming int
}

func NewSubmissionFlow(
	visitorID string,
	creds CredentialSource,
	orders OrderCreator,
	drafts DraftKeeper,
	audit ports.AuditSink,
	log zerolog.Logger,
) *SubmissionFlow {
	return &SubmissionFlow{
		visitorID: visitorID,
		creds:     creds,
		orders:    orders,
		drafts:    drafts,
		audit:     audit,
		log:       log,
		state:     StateIdle,
	}
}

func (f *SubmissionFlow) State() SubmissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit sends draft to the backend. Without a usable credential the draft is
// saved and the outcome asks for a login that returns to the order page; the
// backend is not called in that case.
func (f *SubmissionFlow) Submit(ctx context.Context, draft domain.OrderDraft) (Submission, error) {
	if err := wizard.ValidateStep(wizard.TotalSteps, draft); err != nil {
		return Submission{}, err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Submission{}, ErrFlowClosed
	}
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return Submission{State: StateSubmitting}, domain.ErrSubmissionInFlight
	}
	token := f.creds.Credential()
	if token == "" {
		defer f.mu.Unlock()
		return f.requireAuthLocked(ctx, draft), nil
	}
	f.state = StateSubmitting
	f.publishLocked(StateSubmitting, "", "")
	f.mu.Unlock()

	// The request and its bookkeeping outlive the caller: leaving the page
	// does not cancel them.
	detached := context.WithoutCancel(ctx)
	order, err := f.orders.CreateOrder(detached, token, draft, IdempotencyKey(f.visitorID, draft))

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		f.log.Debug().Str("visitor", f.visitorID).Msg("submission finished after flow closed, outcome dropped")
		return Submission{State: StateIdle}, nil
	}

	switch {
	case err == nil:
		f.state = StateSucceeded
		f.drafts.Clear(detached)
		f.publishLocked(StateSucceeded, order.ID, "")
		f.log.Info().Str("visitor", f.visitorID).Str("order", order.ID).Msg("order submitted")
		return Submission{State: StateSucceeded, OrderID: order.ID, Redirect: SuccessRedirect(order.ID)}, nil
	case domain.NeedsAuthentication(err):
		return f.requireAuthLocked(detached, draft), nil
	default:
		f.state = StateFailed
		msg := FailureMessage(err)
		f.publishLocked(StateFailed, "", msg)
		f.log.Warn().Err(err).Str("visitor", f.visitorID).Msg("order submission failed")
		return Submission{State: StateFailed, Message: msg, Err: err}, nil
	}
}

// ResumeAfterAuth consumes the saved snapshot and merges it into current.
// Fields the visitor already edited in this session win over the snapshot.
// It never submits. ok is false when there was nothing to resume.
func (f *SubmissionFlow) ResumeAfterAuth(ctx context.Context, current domain.OrderDraft, edited func(domain.DraftField) bool) (Resume, bool) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Resume{}, false
	}
	f.resuming++
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.resuming--
		f.mu.Unlock()
	}()

	snap, ok := f.drafts.Load(ctx)
	if !ok {
		return Resume{}, false
	}
	merged := snap.Merge(current, edited)
	f.drafts.Clear(ctx)

	f.mu.Lock()
	if f.state == StateAuthRequired {
		f.state = StateIdle
	}
	f.publishLocked(stateResumed, "", "")
	f.mu.Unlock()

	return Resume{Draft: merged, HadAttachments: snap.HasFiles}, true
}

// Discard drops the saved snapshot when the visitor abandons the order while
// signed in. Signed-out visitors keep it for their login round trip, and a
// resume in progress keeps it until it has been read.
func (f *SubmissionFlow) Discard(ctx context.Context, authenticated bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !authenticated || f.resuming > 0 || f.closed {
		return false
	}
	f.drafts.Clear(ctx)
	if f.state != StateSubmitting {
		f.state = StateIdle
	}
	return true
}

// Reset returns a finished flow to idle so the next draft can be submitted.
func (f *SubmissionFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSubmitting {
		f.state = StateIdle
	}
}

// Close tears the flow down. Later backend completions change nothing.
func (f *SubmissionFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *SubmissionFlow) requireAuthLocked(ctx context.Context, draft domain.OrderDraft) Submission {
	f.drafts.Save(ctx, draft)
	f.state = StateAuthRequired
	f.publishLocked(StateAuthRequired, "", "")
	return Submission{State: StateAuthRequired, Redirect: LoginRedirect(OrderPath)}
}

func (f *SubmissionFlow) publishLocked(state SubmissionState, orderID, msg string) {
	if f.audit == nil {
		return
	}
	f.audit.Record(domain.SubmissionEvent{
		VisitorID: f.visitorID,
		State:     string(state),
		OrderID:   orderID,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
}

// FailureMessage turns a submission error into text for the visitor.
func FailureMessage(err error) string {
	var rf *domain.RequestFailedError
	switch {
	case errors.As(err, &rf) && rf.Message != "":
		return rf.Message
	case errors.Is(err, domain.ErrInvalidResponse):
		return "The server returned an unexpected response. Please try again."
	default:
		return "Failed to create order. Please try again."
	}
}

// IdempotencyKey identifies one wizard run of one visitor, so retrying the
// same draft never creates a second order.
func IdempotencyKey(visitorID string, d domain.OrderDraft) string {
	sum := sha256.Sum256([]byte(visitorID + "\x00" + d.Ref))
	return hex.EncodeToString(sum[:16])
}
