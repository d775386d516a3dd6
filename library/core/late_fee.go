package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// FeePolicy is the subset of LibrarySettings the late fee depends on.
type FeePolicy struct {
	DailyRate       Money
	GracePeriodDays int
	MaxCap          Money
}

// OverdueDays returns the chargeable days between dueDate and referenceDate.
// Every started day past the due date counts; the grace period is subtracted
// and the result never goes below zero.
func OverdueDays(dueDate, referenceDate time.Time, gracePeriodDays int) int {
	if !referenceDate.After(dueDate) {
		return 0
	}

	days := int(math.Ceil(referenceDate.Sub(dueDate).Hours()/hoursPerDay)) - gracePeriodDays
	if days < 0 {
		return 0
	}

	return days
}

// CalculateLateFee returns min(overdueDays * dailyRate, cap), rounded to cents.
// It is zero whenever referenceDate is not after dueDate.
func CalculateLateFee(dueDate, referenceDate time.Time, policy FeePolicy) Money {
	days := OverdueDays(dueDate, referenceDate, policy.GracePeriodDays)
	if days == 0 {
		return Zero
	}

	fee := policy.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	if fee.GreaterThan(policy.MaxCap) {
		fee = policy.MaxCap
	}

	return fee.Round(MoneyPlaces)
}
