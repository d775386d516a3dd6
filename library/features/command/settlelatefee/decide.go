package settlelatefee

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	Loan      core.Loan
	LoanFound bool
}

// Decide implements the settlement rules.
//
// Business Rules:
//
//	GIVEN: A Returned loan with a late fee
//	WHEN: SettleLateFee is received
//	THEN: paid: the loan is marked paid and a LateFee transaction over the fee is recorded
//	THEN: waived: the loan is marked waived
//	IDEMPOTENCY: settling again with the same disposition is a no-op
//	ERROR: "late fee is already settled" for the other disposition
//	ERROR: "loan is not returned yet", "loan has no outstanding late fee", "loan not found"
func Decide(s State, command Command) core.DecisionResult {
	if command.Disposition != core.FeeDispositionPaid && command.Disposition != core.FeeDispositionWaived {
		return core.ErrorDecision(core.ErrInvalidFeeDisposition)
	}

	if !s.LoanFound {
		return core.ErrorDecision(core.ErrLoanNotFound)
	}

	loan := s.Loan

	if loan.IsActive() {
		return core.ErrorDecision(core.ErrLoanNotReturned)
	}

	if !loan.LateFeeAmount.IsPositive() {
		return core.ErrorDecision(core.ErrNoOutstandingFee)
	}

	switch {
	case loan.FeePaid && command.Disposition == core.FeeDispositionPaid,
		loan.FeeWaived && command.Disposition == core.FeeDispositionWaived:
		return core.IdempotentDecision()
	case loan.FeePaid || loan.FeeWaived:
		return core.ErrorDecision(core.ErrFeeAlreadySettled)
	}

	cs := core.NewChangeset(command.OwnerID)

	if command.Disposition == core.FeeDispositionWaived {
		loan.FeeWaived = true
		cs.LoanUpdates = core.Loans{loan}

		return core.SuccessDecision(cs)
	}

	loan.FeePaid = true
	loanID := loan.ID

	cs.LoanUpdates = core.Loans{loan}
	cs.TransactionInserts = core.Transactions{{
		ID:            command.TransactionID,
		OwnerID:       command.OwnerID,
		MemberID:      loan.MemberID,
		LoanID:        &loanID,
		Status:        core.TransactionStatusCompleted,
		PaymentMethod: core.PaymentMethodLateFee,
		TotalAmount:   loan.LateFeeAmount,
		CreatedAt:     command.OccurredAt,
	}}

	return core.SuccessDecision(cs)
}
