package core

import "fmt"

// BorrowingCheck is the outcome of a borrowing eligibility rule.
type BorrowingCheck struct {
	Allowed bool
	Current int
	Limit   int
	Reason  string
}

// CanMemberBorrow checks one more loan against the borrowing limit: allowed while current < limit.
func CanMemberBorrow(currentActiveLoans, limit int) BorrowingCheck {
	return CanMemberBorrowBooks(currentActiveLoans, 1, limit)
}

// CanMemberBorrowBooks checks a checkout of requested books against the borrowing limit.
func CanMemberBorrowBooks(currentActiveLoans, requested, limit int) BorrowingCheck {
	check := BorrowingCheck{
		Allowed: currentActiveLoans+requested <= limit,
		Current: currentActiveLoans,
		Limit:   limit,
	}

	if !check.Allowed {
		check.Reason = fmt.Sprintf("Member has %d active loan(s), borrowing limit is %d", currentActiveLoans, limit)
	}

	return check
}

// CheckUnpaidLateFees checks the number of returned loans with an outstanding fee: allowed while count < threshold.
func CheckUnpaidLateFees(loansWithOutstandingFee, threshold int) BorrowingCheck {
	check := BorrowingCheck{
		Allowed: loansWithOutstandingFee < threshold,
		Current: loansWithOutstandingFee,
		Limit:   threshold,
	}

	if !check.Allowed {
		check.Reason = fmt.Sprintf("Member has %d returned loan(s) with unpaid late fees", loansWithOutstandingFee)
	}

	return check
}
