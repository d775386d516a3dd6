package borrowingeligibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Project_BorrowingEligibility(t *testing.T) {
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	book := GivenBook(t, ownerID, "Dune", 5, "10")

	active := func(n int) core.Loans {
		loans := make(core.Loans, 0, n)
		for i := 0; i < n; i++ {
			loans = append(loans, GivenBorrowedLoan(t, member, book, DaysBefore(FixedNow(), 1), DaysAfter(FixedNow(), 13)))
		}

		return loans
	}

	suspended := member
	suspended.Status = core.MemberStatusSuspended

	settings := core.DefaultLibrarySettingsFor(ownerID)
	settings.BorrowingLimit = 3

	testCases := []struct {
		name         string
		member       core.Member
		openLoans    core.Loans
		requested    int
		wantEligible bool
		wantReasons  int
	}{
		{name: "below limit", member: member, openLoans: active(2), requested: 1, wantEligible: true},
		{name: "at limit", member: member, openLoans: active(3), requested: 1, wantReasons: 1},
		{name: "request exceeds limit", member: member, openLoans: active(1), requested: 3, wantReasons: 1},
		{name: "unpaid fee", member: member, openLoans: core.Loans{GivenReturnedLoanWithFee(t, member, book, "1.00")}, requested: 1, wantReasons: 1},
		{name: "suspended and at limit", member: suspended, openLoans: active(3), requested: 1, wantReasons: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := borrowingeligibility.Project(tc.member, tc.openLoans, settings, borrowingeligibility.BuildQuery(ownerID, tc.member.ID, tc.requested))

			// assert
			assert.Equal(t, tc.wantEligible, result.Eligible)
			assert.Len(t, result.Reasons, tc.wantReasons)
			assert.Equal(t, 3, result.BorrowingLimit.Limit)
		})
	}
}

func Test_BuildQuery_RequestsAtLeastOneBook(t *testing.T) {
	// act
	query := borrowingeligibility.BuildQuery(GivenUniqueID(t), GivenUniqueID(t), 0)

	// assert
	assert.Equal(t, 1, query.Requested)
}
