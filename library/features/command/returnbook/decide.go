package returnbook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	Loan        core.Loan
	LoanFound   bool
	Book        core.Book
	BookFound   bool
	Member      core.Member
	MemberFound bool
	Settings    core.LibrarySettings
}

// Decide implements the return rules.
//
// Business Rules:
//
//	GIVEN: A Borrowed loan
//	WHEN: ReturnBook is received
//	THEN: the loan is Returned with the computed late fee, the condition and the review flag
//	THEN: the book gets its copy back and is Available, or Needs Repair for a Damaged copy
//	THEN: a book that was removed from the catalog meanwhile is left untouched, the loan still closes
//	THEN: a Return transaction linked to the loan is recorded, plus a LateFee transaction if a positive fee is paid
//	THEN: the paid/waived flags record the disposition as given, even without a fee
//	ERROR: "loan not found", "loan is already returned", "book does not belong to this loan"
//	ERROR: "invalid return condition", "invalid fee disposition"
func Decide(s State, command Command) core.DecisionResult {
	if !command.Condition.IsValid() {
		return core.ErrorDecision(core.ErrInvalidReturnCondition)
	}

	if !command.FeeDisposition.IsValid() {
		return core.ErrorDecision(core.ErrInvalidFeeDisposition)
	}

	if !s.LoanFound {
		return core.ErrorDecision(core.ErrLoanNotFound)
	}

	if !s.Loan.IsActive() {
		return core.ErrorDecision(core.ErrLoanAlreadyReturned)
	}

	if command.BookID != uuid.Nil && command.BookID != s.Loan.BookID {
		return core.ErrorDecision(core.ErrBookMismatch)
	}

	now := command.OccurredAt
	fee := core.CalculateLateFee(s.Loan.DueDate, now, s.Settings.FeePolicy())
	hasFee := fee.IsPositive()

	returned := s.Loan
	returned.Status = core.LoanStatusReturned
	returned.ReturnDate = &now
	returned.ReturnCondition = command.Condition
	returned.ConditionNotes = command.ConditionNotes
	returned.FlaggedForReview = command.Condition.NeedsReview()
	returned.LateFeeAmount = fee
	returned.FeePaid = command.FeeDisposition == core.FeeDispositionPaid
	returned.FeeWaived = command.FeeDisposition == core.FeeDispositionWaived

	loanID := s.Loan.ID

	cs := core.NewChangeset(command.OwnerID)
	cs.LoanUpdates = core.Loans{returned}

	if s.BookFound {
		cs.BookUpdates = core.Books{s.Book.Returned(command.Condition, now)}
	}

	cs.TransactionInserts = core.Transactions{{
		ID:            command.TransactionID,
		OwnerID:       command.OwnerID,
		MemberID:      s.Loan.MemberID,
		LoanID:        &loanID,
		Status:        core.TransactionStatusCompleted,
		PaymentMethod: core.PaymentMethodReturn,
		TotalAmount:   core.Zero,
		CreatedAt:     now,
		Items:         []core.TransactionItem{{BookID: s.Loan.BookID, Price: core.Zero}},
	}}

	if returned.FeePaid && hasFee {
		cs.TransactionInserts = append(cs.TransactionInserts, core.Transaction{
			ID:            command.FeeTransactionID,
			OwnerID:       command.OwnerID,
			MemberID:      s.Loan.MemberID,
			LoanID:        &loanID,
			Status:        core.TransactionStatusCompleted,
			PaymentMethod: core.PaymentMethodLateFee,
			TotalAmount:   fee,
			CreatedAt:     now,
		})
	}

	if s.MemberFound {
		cs.MemberTouches = []core.Member{s.Member}
	}

	return core.SuccessDecision(cs)
}
