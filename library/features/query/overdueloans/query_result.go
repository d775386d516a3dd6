package overdueloans

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// OverdueLoan is one overdue loan. DaysOverdue ignores the grace period; AccruedFee applies it.
type OverdueLoan struct {
	LoanID       uuid.UUID
	MemberID     uuid.UUID
	BookID       uuid.UUID
	CheckoutDate time.Time
	DueDate      time.Time
	RenewalCount int
	DaysOverdue  int
	AccruedFee   core.Money
}

// OverdueLoans is the query result, oldest due date first.
type OverdueLoans struct {
	Loans           []OverdueLoan
	Count           int
	TotalAccruedFee core.Money
}
