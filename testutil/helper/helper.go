package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// GivenUniqueID returns a time-ordered id.
func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// FixedNow is the reference clock of tests that need a deterministic "now".
func FixedNow() time.Time {
	return time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)
}

// DaysBefore returns ref shifted back by days.
func DaysBefore(ref time.Time, days int) time.Time {
	return ref.AddDate(0, 0, -days)
}

// DaysAfter returns ref shifted forward by days.
func DaysAfter(ref time.Time, days int) time.Time {
	return ref.AddDate(0, 0, days)
}
