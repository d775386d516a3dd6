package loandetail

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// TransactionView is a transaction linked to the loan.
type TransactionView struct {
	TransactionID uuid.UUID
	PaymentMethod core.PaymentMethod
	Status        core.TransactionStatus
	TotalAmount   core.Money
	CreatedAt     time.Time
}

// LoanDetail is the query result.
type LoanDetail struct {
	Loan         core.Loan
	DaysUntilDue int
	IsOverdue    bool
	// AccruedFee is what a return at AsOf would charge, or the fixed fee of a returned loan.
	AccruedFee     core.Money
	FeeOutstanding bool
	Transactions   []TransactionView
}
