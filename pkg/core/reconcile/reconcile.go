// Package reconcile maps batches of external records onto local records.
//
// For each external record the Reconciler decides whether to create a new
// local record, update an existing one, or skip it. Records are matched by
// their external id, and updates are only applied when the external record
// is strictly newer than the local copy. Decisions are applied one record at
// a time through the Collection; a failure on one record never aborts the
// batch.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
)

// Action is the outcome decided for one external record
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Identity is the dedup key and freshness signal of an external record
type Identity struct {
	ExternalID  string
	ModifiedAt  time.Time
	HasModified bool
}

// Existing describes the local record matched by external id
type Existing struct {
	ID        int64
	UpdatedAt time.Time
}

// Parsed is a record fragment produced from an external payload
type Parsed[F any] struct {
	Fields F
	// NeedsReview is set when parsing substituted a fallback value for a
	// required field (e.g. an unparseable visit date)
	NeedsReview bool
}

// Collection binds the reconciler to one local collection and one external
// payload shape
type Collection[F any] interface {
	Name() string
	// Identify extracts the external id and remote modification time.
	// An empty ExternalID means the payload has none.
	Identify(payload fieldparse.Payload) (Identity, error)
	// Parse converts the payload into a fragment. Relations that cannot be
	// resolved must be left nil so they never overwrite stored values.
	Parse(payload fieldparse.Payload) (Parsed[F], error)
	Find(ctx context.Context, externalID string) (*Existing, error)
	Create(ctx context.Context, externalID string, fields F, modifiedAt time.Time) error
	Update(ctx context.Context, id int64, fields F, modifiedAt time.Time) error
}

// Decision is the create/update/skip verdict for one record
type Decision[F any] struct {
	Action      Action
	ExternalID  string
	LocalID     int64
	ModifiedAt  time.Time
	Reason      string
	Fields      F
	NeedsReview bool
	// Err is set when the record was skipped because it could not be processed
	Err error
}

// Failed reports whether the decision records a failure rather than a benign skip
func (d Decision[F]) Failed() bool {
	return d.Err != nil
}

// Reconciler decides and applies create/update/skip for external records
type Reconciler[F any] struct {
	collection Collection[F]
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a reconciler for the collection. now defaults to time.Now.
func New[F any](collection Collection[F], logger *zap.Logger, now func() time.Time) *Reconciler[F] {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler[F]{
		collection: collection,
		logger:     logger,
		now:        now,
	}
}

// Decide computes the decision for a single payload without writing anything
func (r *Reconciler[F]) Decide(ctx context.Context, payload fieldparse.Payload) Decision[F] {
	identity, err := r.collection.Identify(payload)
	if err != nil {
		return Decision[F]{
			Action: ActionSkip,
			Reason: ReasonMalformed,
			Err:    fmt.Errorf("%w: %v", ErrMalformedPayload, err),
		}
	}
	if identity.ExternalID == "" {
		return Decision[F]{
			Action: ActionSkip,
			Reason: ReasonNoExternalID,
			Err:    fmt.Errorf("%w: missing external id", ErrMalformedPayload),
		}
	}

	decision := Decision[F]{ExternalID: identity.ExternalID}

	existing, err := r.collection.Find(ctx, identity.ExternalID)
	if err != nil {
		decision.Action = ActionSkip
		decision.Reason = ReasonLookupFailed
		decision.Err = fmt.Errorf("%w: %v", ErrStorage, err)
		return decision
	}

	if existing != nil {
		decision.LocalID = existing.ID
		if !identity.HasModified {
			decision.Action = ActionSkip
			decision.Reason = ReasonNoComparableTimestamp
			return decision
		}
		if !identity.ModifiedAt.After(existing.UpdatedAt) {
			decision.Action = ActionSkip
			decision.Reason = ReasonNotNewer
			return decision
		}
		decision.Action = ActionUpdate
		decision.ModifiedAt = identity.ModifiedAt
	} else {
		decision.Action = ActionCreate
		decision.ModifiedAt = identity.ModifiedAt
		if !identity.HasModified {
			decision.ModifiedAt = r.now().UTC()
		}
	}

	parsed, err := r.parse(payload)
	if err != nil {
		return Decision[F]{
			Action:     ActionSkip,
			ExternalID: identity.ExternalID,
			LocalID:    decision.LocalID,
			Reason:     ReasonMalformed,
			Err:        fmt.Errorf("%w: %v", ErrMalformedPayload, err),
		}
	}
	decision.Fields = parsed.Fields
	decision.NeedsReview = parsed.NeedsReview

	return decision
}

// parse shields the batch from panics in payload-specific parsing code
func (r *Reconciler[F]) parse(payload fieldparse.Payload) (parsed Parsed[F], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while parsing: %v", p)
		}
	}()
	return r.collection.Parse(payload)
}

// Apply writes a create or update decision through the collection
func (r *Reconciler[F]) Apply(ctx context.Context, decision Decision[F]) error {
	var err error
	switch decision.Action {
	case ActionCreate:
		err = r.collection.Create(ctx, decision.ExternalID, decision.Fields, decision.ModifiedAt)
	case ActionUpdate:
		err = r.collection.Update(ctx, decision.LocalID, decision.Fields, decision.ModifiedAt)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Run reconciles a batch. Records are processed independently; the returned
// summary always accounts for every record and no error escapes.
func (r *Reconciler[F]) Run(ctx context.Context, batch []fieldparse.Payload) *Summary {
	summary := &Summary{
		RunID:      uuid.NewString(),
		Collection: r.collection.Name(),
		Total:      len(batch),
	}
	logger := r.logger.With(
		zap.String("run_id", summary.RunID),
		zap.String("collection", summary.Collection),
	)
	logger.Debug("Starting reconciliation", zap.Int("records", len(batch)))

	for i, payload := range batch {
		if err := ctx.Err(); err != nil {
			remaining := len(batch) - i
			logger.Warn("Reconciliation cancelled", zap.Int("remaining", remaining), zap.Error(err))
			summary.Cancelled = true
			for range remaining {
				summary.record(Outcome{Action: ActionSkip, Reason: ReasonCancelled}, nil)
			}
			break
		}

		outcome, failure := r.runOne(ctx, payload)
		summary.record(outcome, failure)

		fields := []zap.Field{
			zap.String("external_id", outcome.ExternalID),
			zap.String("action", string(outcome.Action)),
		}
		if failure != nil {
			logger.Error("Failed to reconcile record",
				append(fields, zap.String("reason", failure.Reason), zap.Error(failure.Err))...)
			continue
		}
		if outcome.NeedsReview {
			logger.Warn("Record reconciled with fallback values", fields...)
		}
		if outcome.Reason != "" {
			fields = append(fields, zap.String("reason", outcome.Reason))
		}
		logger.Debug("Reconciled record", fields...)
	}

	logger.Info("Reconciliation completed",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("needs_review", summary.NeedsReview))

	return summary
}

// runOne decides and applies one record, converting panics into failures
func (r *Reconciler[F]) runOne(ctx context.Context, payload fieldparse.Payload) (outcome Outcome, failure *Failure) {
	defer func() {
		if p := recover(); p != nil {
			outcome.Action = ActionSkip
			outcome.Reason = ReasonMalformed
			failure = &Failure{
				ExternalID: outcome.ExternalID,
				Reason:     ReasonMalformed,
				Err:        fmt.Errorf("%w: panic: %v", ErrMalformedPayload, p),
			}
		}
	}()

	decision := r.Decide(ctx, payload)
	outcome = Outcome{
		ExternalID:  decision.ExternalID,
		Action:      decision.Action,
		Reason:      decision.Reason,
		NeedsReview: decision.NeedsReview,
	}
	if decision.Failed() {
		return outcome, &Failure{ExternalID: decision.ExternalID, Reason: decision.Reason, Err: decision.Err}
	}

	if err := r.Apply(ctx, decision); err != nil {
		outcome.Action = ActionSkip
		outcome.Reason = ReasonApplyFailed
		outcome.NeedsReview = false
		return outcome, &Failure{ExternalID: decision.ExternalID, Reason: ReasonApplyFailed, Err: err}
	}

	return outcome, nil
}
