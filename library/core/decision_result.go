package core

// DecisionResult is the outcome of a Decide function.
//
// Construct it only through IdempotentDecision, SuccessDecision and ErrorDecision.
type DecisionResult struct {
	Outcome   string // "idempotent", "success", or "error"
	Changeset Changeset
	Err       error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the requested state already holds and nothing is written.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision carries the changeset to commit.
func SuccessDecision(changeset Changeset) DecisionResult {
	return DecisionResult{
		Outcome:   successOutcome,
		Changeset: changeset,
	}
}

// ErrorDecision carries a rule violation. Nothing is written.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasChangesToCommit returns true if there is a changeset to commit.
func (r DecisionResult) HasChangesToCommit() bool {
	return r.Outcome == successOutcome && !r.Changeset.IsEmpty()
}

// IsIdempotent returns true if nothing needed to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
