package loandetail

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Project combines a loan with its transactions.
func Project(loan core.Loan, transactions core.Transactions, settings core.LibrarySettings, query Query) LoanDetail {
	detail := LoanDetail{
		Loan:           loan,
		AccruedFee:     loan.AccruedFee(query.AsOf, settings.FeePolicy()),
		FeeOutstanding: loan.HasOutstandingFee(),
		Transactions:   make([]TransactionView, 0, len(transactions)),
	}

	if loan.IsActive() {
		detail.DaysUntilDue = loan.DaysUntilDue(query.AsOf)
		detail.IsOverdue = loan.IsOverdue(query.AsOf)
	}

	for _, tx := range transactions {
		detail.Transactions = append(detail.Transactions, TransactionView{
			TransactionID: tx.ID,
			PaymentMethod: tx.PaymentMethod,
			Status:        tx.Status,
			TotalAmount:   tx.TotalAmount,
			CreatedAt:     tx.CreatedAt,
		})
	}

	return detail
}
