package core

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the lifecycle state of a loan. Borrowed -> Returned is the only transition.
type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "Borrowed"
	LoanStatusReturned LoanStatus = "Returned"
)

// ReturnCondition is the condition a copy comes back in.
type ReturnCondition string

const (
	ReturnConditionExcellent ReturnCondition = "Excellent"
	ReturnConditionGood      ReturnCondition = "Good"
	ReturnConditionFair      ReturnCondition = "Fair"
	ReturnConditionPoor      ReturnCondition = "Poor"
	ReturnConditionDamaged   ReturnCondition = "Damaged"
)

// IsValid reports whether c is a known condition.
func (c ReturnCondition) IsValid() bool {
	switch c {
	case ReturnConditionExcellent, ReturnConditionGood, ReturnConditionFair, ReturnConditionPoor, ReturnConditionDamaged:
		return true
	default:
		return false
	}
}

// NeedsReview reports whether a copy in this condition gets flagged for staff review.
func (c ReturnCondition) NeedsReview() bool {
	return c == ReturnConditionPoor || c == ReturnConditionDamaged
}

// Loan is a copy of a book checked out to a member.
type Loan struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	BookID           uuid.UUID
	MemberID         uuid.UUID
	CheckoutDate     time.Time
	DueDate          time.Time
	ReturnDate       *time.Time
	Status           LoanStatus
	RenewalCount     int
	ReturnCondition  ReturnCondition
	ConditionNotes   string
	FlaggedForReview bool
	LateFeeAmount    Money
	FeePaid          bool
	FeeWaived        bool
	Version          int64
}

// Loans is a list of loans.
type Loans []Loan

// IsActive reports whether the copy is still out.
func (l Loan) IsActive() bool {
	return l.Status == LoanStatusBorrowed
}

// HasOutstandingFee reports whether a returned loan carries a fee that was neither paid nor waived.
func (l Loan) HasOutstandingFee() bool {
	return l.Status == LoanStatusReturned && l.LateFeeAmount.IsPositive() && !l.FeePaid && !l.FeeWaived
}

// IsOverdue reports whether an active loan is past its due date at now.
// Overdue is never stored; it is always derived.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate)
}

// DaysUntilDue returns the whole days left until the due date, negative once overdue.
// A partial day past due already counts as a full overdue day, matching OverdueDays.
func (l Loan) DaysUntilDue(now time.Time) int {
	if now.After(l.DueDate) {
		return -OverdueDays(l.DueDate, now, 0)
	}

	return int(math.Ceil(l.DueDate.Sub(now).Hours() / hoursPerDay))
}

// AccruedFee returns the fee an active loan would be charged if it were returned at now.
// Returned loans report the fee fixed at return time.
func (l Loan) AccruedFee(now time.Time, policy FeePolicy) Money {
	if !l.IsActive() {
		return l.LateFeeAmount
	}

	return CalculateLateFee(l.DueDate, now, policy)
}

// CountActive returns the number of loans still out.
func (ls Loans) CountActive() int {
	count := 0
	for _, l := range ls {
		if l.IsActive() {
			count++
		}
	}

	return count
}

// CountOutstandingFees returns the number of returned loans with an outstanding fee.
func (ls Loans) CountOutstandingFees() int {
	count := 0
	for _, l := range ls {
		if l.HasOutstandingFee() {
			count++
		}
	}

	return count
}

// ActiveForBook returns the active loan of bookID, if any.
func (ls Loans) ActiveForBook(bookID uuid.UUID) (Loan, bool) {
	for _, l := range ls {
		if l.IsActive() && l.BookID == bookID {
			return l, true
		}
	}

	return Loan{}, false
}
