package reconcile

import "errors"

var (
	// ErrMalformedPayload marks a record missing a required field or carrying
	// a field of the wrong shape
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrStorage marks a failure of the record store while applying a decision
	ErrStorage = errors.New("storage failure")
)

// Skip and failure reasons reported in outcomes
const (
	ReasonNoExternalID          = "no external id"
	ReasonNotNewer              = "not newer"
	ReasonNoComparableTimestamp = "no comparable timestamp"
	ReasonMalformed             = "malformed payload"
	ReasonLookupFailed          = "lookup failed"
	ReasonApplyFailed           = "apply failed"
	ReasonCancelled             = "cancelled"
)
