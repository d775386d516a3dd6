package overdueloans

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Project turns the loaded loans into the overdue list.
// Loans that are not overdue at AsOf are skipped, so a replica that lags behind a return
// or a renewal can only shorten the list.
func Project(loans core.Loans, settings core.LibrarySettings, query Query) OverdueLoans {
	policy := settings.FeePolicy()
	result := OverdueLoans{
		Loans:           make([]OverdueLoan, 0, len(loans)),
		TotalAccruedFee: core.Zero,
	}

	for _, l := range loans {
		if !l.IsOverdue(query.AsOf) {
			continue
		}

		fee := l.AccruedFee(query.AsOf, policy)
		result.Loans = append(result.Loans, OverdueLoan{
			LoanID:       l.ID,
			MemberID:     l.MemberID,
			BookID:       l.BookID,
			CheckoutDate: l.CheckoutDate,
			DueDate:      l.DueDate,
			RenewalCount: l.RenewalCount,
			DaysOverdue:  core.OverdueDays(l.DueDate, query.AsOf, 0),
			AccruedFee:   fee,
		})
		result.TotalAccruedFee = result.TotalAccruedFee.Add(fee)
	}

	result.Count = len(result.Loans)

	return result
}
