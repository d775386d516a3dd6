package memberloans

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// LoanView is one loan with its derived state.
// DaysUntilDue, IsOverdue and AccruedFee only describe active loans; returned loans report the fixed fee.
type LoanView struct {
	LoanID          uuid.UUID
	BookID          uuid.UUID
	Status          core.LoanStatus
	CheckoutDate    time.Time
	DueDate         time.Time
	ReturnDate      *time.Time
	RenewalCount    int
	DaysUntilDue    int
	IsOverdue       bool
	AccruedFee      core.Money
	FeePaid         bool
	FeeWaived       bool
	FeeOutstanding  bool
	ReturnCondition core.ReturnCondition
}

// MemberLoans is the query result.
type MemberLoans struct {
	MemberID     uuid.UUID
	Loans        []LoanView
	ActiveCount  int
	OverdueCount int
	Count        int
}
