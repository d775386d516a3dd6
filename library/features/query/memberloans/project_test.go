package memberloans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Project_DerivesDueStateAtQueryTime(t *testing.T) {
	// arrange
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	now := FixedNow()

	dueSoon := GivenBorrowedLoan(t, member, GivenBook(t, ownerID, "Dune", 1, "10"), DaysBefore(now, 4), DaysAfter(now, 3))
	overdue := GivenBorrowedLoan(t, member, GivenBook(t, ownerID, "Emma", 1, "10"), DaysBefore(now, 20), DaysBefore(now, 6))
	returned := GivenReturnedLoanWithFee(t, member, GivenBook(t, ownerID, "Ulysses", 1, "10"), "1.50")

	query := memberloans.BuildQuery(ownerID, member.ID, now)

	// act
	result := memberloans.Project(core.Loans{dueSoon, overdue, returned}, core.DefaultLibrarySettingsFor(ownerID), query)

	// assert
	require.Len(t, result.Loans, 3)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 2, result.ActiveCount)
	assert.Equal(t, 1, result.OverdueCount)

	assert.Equal(t, 3, result.Loans[0].DaysUntilDue)
	assert.False(t, result.Loans[0].IsOverdue)
	assert.True(t, result.Loans[0].AccruedFee.IsZero())

	assert.Equal(t, -6, result.Loans[1].DaysUntilDue)
	assert.True(t, result.Loans[1].IsOverdue)
	assert.True(t, result.Loans[1].AccruedFee.Equal(core.MoneyFromString("3.00")), result.Loans[1].AccruedFee.String())

	assert.False(t, result.Loans[2].IsOverdue)
	assert.True(t, result.Loans[2].FeeOutstanding)
	assert.True(t, result.Loans[2].AccruedFee.Equal(core.MoneyFromString("1.50")))
}

func Test_Project_NoLoans(t *testing.T) {
	// act
	result := memberloans.Project(nil, core.DefaultLibrarySettings(), memberloans.BuildQuery(GivenUniqueID(t), GivenUniqueID(t), FixedNow()))

	// assert
	assert.NotNil(t, result.Loans)
	assert.Zero(t, result.Count)
}
