package renewloan

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	Loan      core.Loan
	LoanFound bool
	Settings  core.LibrarySettings
}

// Decide implements the renewal rules.
//
// Business Rules:
//
//	GIVEN: A Borrowed loan
//	WHEN: RenewLoan is received
//	THEN: the due date moves out by ExtensionDays and the renewal count goes up by one
//	ERROR: "Maximum renewals reached (N)" once the count reached the limit, unless overridden
//	ERROR: "loan not found", "loan is already returned", "extension days must be positive"
//	AUDIT: an override is recorded with actor and reason, whether or not the limit was reached
func Decide(s State, command Command) core.DecisionResult {
	if command.ExtensionDays <= 0 {
		return core.ErrorDecision(core.ErrInvalidExtension)
	}

	if err := command.Override.Validate(); err != nil {
		return core.ErrorDecision(err)
	}

	if !s.LoanFound {
		return core.ErrorDecision(core.ErrLoanNotFound)
	}

	if !s.Loan.IsActive() {
		return core.ErrorDecision(core.ErrLoanAlreadyReturned)
	}

	maxRenewals := s.Settings.MaxRenewalsPerLoan
	if !command.Override.Enabled && s.Loan.RenewalCount >= maxRenewals {
		return core.ErrorDecision(core.MaximumRenewalsReached(maxRenewals))
	}

	renewed := s.Loan
	renewed.DueDate = s.Loan.DueDate.AddDate(0, 0, command.ExtensionDays)
	renewed.RenewalCount++

	cs := core.NewChangeset(command.OwnerID)
	cs.LoanUpdates = core.Loans{renewed}

	if command.Override.Enabled {
		cs.AuditInserts = []core.OverrideAudit{
			command.Override.AuditFor(command.OwnerID, commandType, s.Loan.MemberID, s.Loan.ID, command.OccurredAt),
		}
	}

	return core.SuccessDecision(cs)
}
