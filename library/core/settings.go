package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	defaultDailyLateFeeRate   = "0.50"
	defaultGracePeriodDays    = 0
	defaultMaxLateFeeCap      = "50.00"
	defaultMaxRenewalsPerLoan = 2
	defaultBorrowingLimit     = 5
	defaultUnpaidFeeLoanLimit = 1
	defaultLoanDays           = 14
)

// LibrarySettings is the per-owner circulation policy.
type LibrarySettings struct {
	OwnerID            uuid.UUID
	DailyLateFeeRate   Money
	GracePeriodDays    int
	MaxLateFeeCap      Money
	MaxRenewalsPerLoan int
	BorrowingLimit     int
	UnpaidFeeLoanLimit int
	DefaultLoanDays    int
	UpdatedAt          time.Time
}

// DefaultLibrarySettings returns the policy that applies to owners who never saved their own.
// It is the only place these values are defined.
func DefaultLibrarySettings() LibrarySettings {
	return LibrarySettings{
		DailyLateFeeRate:   MoneyFromString(defaultDailyLateFeeRate),
		GracePeriodDays:    defaultGracePeriodDays,
		MaxLateFeeCap:      MoneyFromString(defaultMaxLateFeeCap),
		MaxRenewalsPerLoan: defaultMaxRenewalsPerLoan,
		BorrowingLimit:     defaultBorrowingLimit,
		UnpaidFeeLoanLimit: defaultUnpaidFeeLoanLimit,
		DefaultLoanDays:    defaultLoanDays,
	}
}

// DefaultLibrarySettingsFor returns the defaults bound to ownerID.
func DefaultLibrarySettingsFor(ownerID uuid.UUID) LibrarySettings {
	s := DefaultLibrarySettings()
	s.OwnerID = ownerID

	return s
}

// FeePolicy returns the late fee part of the settings.
func (s LibrarySettings) FeePolicy() FeePolicy {
	return FeePolicy{
		DailyRate:       s.DailyLateFeeRate,
		GracePeriodDays: s.GracePeriodDays,
		MaxCap:          s.MaxLateFeeCap,
	}
}

// Validate rejects policies the workflows cannot operate with.
func (s LibrarySettings) Validate() error {
	switch {
	case s.DailyLateFeeRate.IsNegative():
		return invalidSettings("daily late fee rate must not be negative")
	case s.GracePeriodDays < 0:
		return invalidSettings("grace period days must not be negative")
	case s.MaxLateFeeCap.IsNegative():
		return invalidSettings("max late fee cap must not be negative")
	case hasSubCentPrecision(s.DailyLateFeeRate):
		return invalidSettings("daily late fee rate must not have more than two decimal places")
	case hasSubCentPrecision(s.MaxLateFeeCap):
		return invalidSettings("max late fee cap must not have more than two decimal places")
	case s.MaxRenewalsPerLoan < 0:
		return invalidSettings("max renewals per loan must not be negative")
	case s.BorrowingLimit < 1:
		return invalidSettings("borrowing limit must be at least 1")
	case s.UnpaidFeeLoanLimit < 1:
		return invalidSettings("unpaid fee loan limit must be at least 1")
	case s.DefaultLoanDays < 1:
		return invalidSettings("default loan days must be at least 1")
	}

	return nil
}

// SameRulesAs reports whether both settings describe the same policy, ignoring timestamps.
func (s LibrarySettings) SameRulesAs(other LibrarySettings) bool {
	return s.OwnerID == other.OwnerID &&
		s.DailyLateFeeRate.Equal(other.DailyLateFeeRate) &&
		s.GracePeriodDays == other.GracePeriodDays &&
		s.MaxLateFeeCap.Equal(other.MaxLateFeeCap) &&
		s.MaxRenewalsPerLoan == other.MaxRenewalsPerLoan &&
		s.BorrowingLimit == other.BorrowingLimit &&
		s.UnpaidFeeLoanLimit == other.UnpaidFeeLoanLimit &&
		s.DefaultLoanDays == other.DefaultLoanDays
}
