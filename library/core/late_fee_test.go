package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

func Test_CalculateLateFee_Scenarios(t *testing.T) {
	dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	returnedTenDaysLate := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		reference   time.Time
		policy      core.FeePolicy
		expectedFee string
	}{
		{
			name:        "ten days late, no grace, cap not hit",
			reference:   returnedTenDaysLate,
			policy:      givenFeePolicy(t, "0.50", 0, "10.00"),
			expectedFee: "5.00",
		},
		{
			name:        "ten days late, capped",
			reference:   returnedTenDaysLate,
			policy:      givenFeePolicy(t, "0.50", 0, "3.00"),
			expectedFee: "3.00",
		},
		{
			name:        "ten days late, two grace days",
			reference:   returnedTenDaysLate,
			policy:      givenFeePolicy(t, "0.50", 2, "10.00"),
			expectedFee: "4.00",
		},
		{
			name:        "returned on the due date",
			reference:   dueDate,
			policy:      givenFeePolicy(t, "0.50", 0, "10.00"),
			expectedFee: "0.00",
		},
		{
			name:        "returned before the due date",
			reference:   dueDate.Add(-72 * time.Hour),
			policy:      givenFeePolicy(t, "0.50", 0, "10.00"),
			expectedFee: "0.00",
		},
		{
			name:        "late but within the grace period",
			reference:   dueDate.Add(36 * time.Hour),
			policy:      givenFeePolicy(t, "0.50", 2, "10.00"),
			expectedFee: "0.00",
		},
		{
			name:        "a started day counts as a full day",
			reference:   dueDate.Add(time.Hour),
			policy:      givenFeePolicy(t, "0.50", 0, "10.00"),
			expectedFee: "0.50",
		},
		{
			name:        "zero cap means no fee",
			reference:   returnedTenDaysLate,
			policy:      givenFeePolicy(t, "0.50", 0, "0"),
			expectedFee: "0.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			fee := core.CalculateLateFee(dueDate, tc.reference, tc.policy)

			// assert
			assert.Equal(t, tc.expectedFee, fee.StringFixed(2))
		})
	}
}

func Test_CalculateLateFee_IsMonotonicAndNeverExceedsCap(t *testing.T) {
	// arrange
	dueDate := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := givenFeePolicy(t, "0.75", 1, "12.00")
	previous := core.Zero

	for hours := 0; hours < 60*24; hours += 7 {
		// act
		fee := core.CalculateLateFee(dueDate, dueDate.Add(time.Duration(hours)*time.Hour), policy)

		// assert
		assert.False(t, fee.LessThan(previous), "fee must not decrease, hours=%d", hours)
		assert.False(t, fee.GreaterThan(policy.MaxCap), "fee must not exceed the cap, hours=%d", hours)
		previous = fee
	}
}

func Test_OverdueDays(t *testing.T) {
	dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, core.OverdueDays(dueDate, dueDate, 0))
	assert.Equal(t, 10, core.OverdueDays(dueDate, dueDate.AddDate(0, 0, 10), 0))
	assert.Equal(t, 8, core.OverdueDays(dueDate, dueDate.AddDate(0, 0, 10), 2))
	assert.Equal(t, 0, core.OverdueDays(dueDate, dueDate.AddDate(0, 0, 1), 5))
}

func Test_DefaultLibrarySettings_FeePolicy(t *testing.T) {
	// arrange
	policy := core.DefaultLibrarySettings().FeePolicy()
	dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// act
	feeAfterTenDays := core.CalculateLateFee(dueDate, dueDate.AddDate(0, 0, 10), policy)
	feeAfterAYear := core.CalculateLateFee(dueDate, dueDate.AddDate(1, 0, 0), policy)

	// assert
	assert.Equal(t, "5.00", feeAfterTenDays.StringFixed(2))
	assert.Equal(t, "50.00", feeAfterAYear.StringFixed(2))
}

func givenFeePolicy(t *testing.T, rate string, graceDays int, maxCap string) core.FeePolicy {
	t.Helper()

	return core.FeePolicy{
		DailyRate:       core.MoneyFromString(rate),
		GracePeriodDays: graceDays,
		MaxCap:          core.MoneyFromString(maxCap),
	}
}
