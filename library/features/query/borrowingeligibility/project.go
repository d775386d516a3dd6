package borrowingeligibility

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const reasonMemberNotActive = "Member is not active"

// Project evaluates the borrowing checks.
//
// Query Logic:
//
//	GIVEN: A member, the member's open loans and the owner's settings
//	WHEN: BorrowingEligibility is executed
//	THEN: both checks are returned; Eligible only if the member is active and both allow borrowing
func Project(member core.Member, openLoans core.Loans, settings core.LibrarySettings, query Query) Eligibility {
	result := Eligibility{
		MemberID:       member.ID,
		MemberActive:   member.IsActive(),
		BorrowingLimit: core.CanMemberBorrowBooks(openLoans.CountActive(), query.Requested, settings.BorrowingLimit),
		UnpaidLateFees: core.CheckUnpaidLateFees(openLoans.CountOutstandingFees(), settings.UnpaidFeeLoanLimit),
		Reasons:        []string{},
	}

	if !result.MemberActive {
		result.Reasons = append(result.Reasons, reasonMemberNotActive)
	}

	for _, check := range []core.BorrowingCheck{result.BorrowingLimit, result.UnpaidLateFees} {
		if !check.Allowed {
			result.Reasons = append(result.Reasons, check.Reason)
		}
	}

	result.Eligible = len(result.Reasons) == 0

	return result
}
