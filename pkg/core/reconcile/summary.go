package reconcile

// Outcome is the per-record result kept for diagnostics
type Outcome struct {
	ExternalID  string
	Action      Action
	Reason      string
	NeedsReview bool
}

// Failure is a record that could not be reconciled
type Failure struct {
	ExternalID string
	Reason     string
	Err        error
}

// Summary aggregates the outcomes of one reconciliation batch
type Summary struct {
	RunID       string
	Collection  string
	Total       int
	Created     int
	Updated     int
	Skipped     int
	Failed      int
	NeedsReview int
	Cancelled   bool
	Outcomes    []Outcome
	Failures    []Failure
}

// Changed returns the number of records written
func (s *Summary) Changed() int {
	return s.Created + s.Updated
}

func (s *Summary) record(outcome Outcome, failure *Failure) {
	s.Outcomes = append(s.Outcomes, outcome)
	if failure != nil {
		s.Failed++
		s.Failures = append(s.Failures, *failure)
		return
	}

	switch outcome.Action {
	case ActionCreate:
		s.Created++
	case ActionUpdate:
		s.Updated++
	default:
		s.Skipped++
	}
	if outcome.NeedsReview {
		s.NeedsReview++
	}
}
