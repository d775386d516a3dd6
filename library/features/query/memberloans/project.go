package memberloans

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Project derives the loan views of a member.
//
// Query Logic:
//
//	GIVEN: The member's loans and the owner's settings
//	WHEN: MemberLoans is executed
//	THEN: every loan is returned in the order given, active loans with days until due,
//	      overdue flag and the fee they would be charged at AsOf
func Project(loans core.Loans, settings core.LibrarySettings, query Query) MemberLoans {
	policy := settings.FeePolicy()
	result := MemberLoans{
		MemberID: query.MemberID,
		Loans:    make([]LoanView, 0, len(loans)),
		Count:    len(loans),
	}

	for _, l := range loans {
		view := LoanView{
			LoanID:          l.ID,
			BookID:          l.BookID,
			Status:          l.Status,
			CheckoutDate:    l.CheckoutDate,
			DueDate:         l.DueDate,
			ReturnDate:      l.ReturnDate,
			RenewalCount:    l.RenewalCount,
			AccruedFee:      l.AccruedFee(query.AsOf, policy),
			FeePaid:         l.FeePaid,
			FeeWaived:       l.FeeWaived,
			FeeOutstanding:  l.HasOutstandingFee(),
			ReturnCondition: l.ReturnCondition,
		}

		if l.IsActive() {
			view.DaysUntilDue = l.DaysUntilDue(query.AsOf)
			view.IsOverdue = l.IsOverdue(query.AsOf)
			result.ActiveCount++
		}

		if view.IsOverdue {
			result.OverdueCount++
		}

		result.Loans = append(result.Loans, view)
	}

	return result
}
