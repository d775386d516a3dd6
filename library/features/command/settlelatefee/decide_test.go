package settlelatefee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/settlelatefee"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func givenState(t *testing.T) settlelatefee.State {
	t.Helper()

	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	book := GivenBook(t, ownerID, "Dune", 1, "12.50")

	return settlelatefee.State{Loan: GivenReturnedLoanWithFee(t, member, book, "4.50"), LoanFound: true}
}

func settle(s settlelatefee.State, disposition core.FeeDisposition) settlelatefee.Command {
	return settlelatefee.BuildCommand(s.Loan.OwnerID, "librarian", s.Loan.ID, disposition, FixedNow())
}

func Test_Decide_Paid_RecordsLateFeeTransaction(t *testing.T) {
	// arrange
	s := givenState(t)
	command := settle(s, core.FeeDispositionPaid)

	// act
	result := settlelatefee.Decide(s, command)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Changeset.LoanUpdates, 1)
	assert.True(t, result.Changeset.LoanUpdates[0].FeePaid)
	assert.False(t, result.Changeset.LoanUpdates[0].HasOutstandingFee())

	require.Len(t, result.Changeset.TransactionInserts, 1)
	tx := result.Changeset.TransactionInserts[0]
	assert.Equal(t, command.TransactionID, tx.ID)
	assert.Equal(t, core.PaymentMethodLateFee, tx.PaymentMethod)
	assert.True(t, tx.TotalAmount.Equal(core.MoneyFromString("4.50")))
	assert.Equal(t, s.Loan.ID, *tx.LoanID)
	assert.Equal(t, s.Loan.MemberID, tx.MemberID)
}

func Test_Decide_Waived_OnlyMarksTheLoan(t *testing.T) {
	// arrange
	s := givenState(t)

	// act
	result := settlelatefee.Decide(s, settle(s, core.FeeDispositionWaived))

	// assert
	require.NoError(t, result.HasError())
	assert.True(t, result.Changeset.LoanUpdates[0].FeeWaived)
	assert.Empty(t, result.Changeset.TransactionInserts)
}

func Test_Decide_SameDispositionAgainIsIdempotent(t *testing.T) {
	// arrange
	s := givenState(t)
	s.Loan.FeePaid = true

	// act
	result := settlelatefee.Decide(s, settle(s, core.FeeDispositionPaid))

	// assert
	assert.True(t, result.IsIdempotent())
	assert.NoError(t, result.HasError())
}

func Test_Decide_Errors(t *testing.T) {
	s := givenState(t)

	active := s
	active.Loan.Status = core.LoanStatusBorrowed
	active.Loan.ReturnDate = nil

	noFee := s
	noFee.Loan.LateFeeAmount = core.Zero

	waived := s
	waived.Loan.FeeWaived = true

	missing := s
	missing.LoanFound = false

	testCases := []struct {
		name        string
		state       settlelatefee.State
		disposition core.FeeDisposition
		wantErr     error
	}{
		{name: "none is not a settlement", state: s, disposition: core.FeeDispositionNone, wantErr: core.ErrInvalidFeeDisposition},
		{name: "loan not found", state: missing, disposition: core.FeeDispositionPaid, wantErr: core.ErrLoanNotFound},
		{name: "loan still out", state: active, disposition: core.FeeDispositionPaid, wantErr: core.ErrLoanNotReturned},
		{name: "no fee", state: noFee, disposition: core.FeeDispositionPaid, wantErr: core.ErrNoOutstandingFee},
		{name: "waived then paid", state: waived, disposition: core.FeeDispositionPaid, wantErr: core.ErrFeeAlreadySettled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := settlelatefee.Decide(tc.state, settle(s, tc.disposition))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.wantErr)
		})
	}
}
