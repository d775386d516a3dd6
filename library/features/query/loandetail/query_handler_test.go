package loandetail_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/memstore"
)

func Test_QueryHandler_Handle_ActiveLoanShowsAccruedFee(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	book := GivenBook(t, ownerID, "Dune", 0, "10")
	loan := GivenBorrowedLoan(t, member, book, DaysBefore(FixedNow(), 18), DaysBefore(FixedNow(), 4))
	store := memstore.New().GivenMember(member).GivenBook(book).GivenLoan(loan)
	handler := loandetail.NewQueryHandler(store, GivenDefaultSettings(ownerID))

	// act
	detail, err := handler.Handle(ctx, loandetail.BuildQuery(ownerID, loan.ID, FixedNow()))

	// assert
	require.NoError(t, err)
	assert.True(t, detail.IsOverdue)
	assert.Equal(t, -4, detail.DaysUntilDue)
	assert.True(t, detail.AccruedFee.Equal(core.MoneyFromString("2.00")))
	assert.Empty(t, detail.Transactions)
	assert.Positive(t, store.EventualReads())
}

func Test_QueryHandler_Handle_ReturnedLoanShowsLinkedTransactions(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	book := GivenBook(t, ownerID, "Dune", 0, "10")
	loan := GivenBorrowedLoan(t, member, book, DaysBefore(FixedNow(), 18), DaysBefore(FixedNow(), 4))
	store := memstore.New().GivenMember(member).GivenBook(book).GivenLoan(loan)

	returnHandler := returnbook.NewCommandHandler(store, GivenDefaultSettings(ownerID))
	_, err := returnHandler.Handle(ctx, returnbook.BuildCommand(
		ownerID, "librarian", loan.ID, uuid.Nil, core.ReturnConditionGood, "", core.FeeDispositionPaid, FixedNow(),
	))
	require.NoError(t, err)

	handler := loandetail.NewQueryHandler(store, GivenDefaultSettings(ownerID), loandetail.WithStrongConsistency())

	// act
	detail, err := handler.Handle(ctx, loandetail.BuildQuery(ownerID, loan.ID, DaysAfter(FixedNow(), 10)))

	// assert
	require.NoError(t, err)
	assert.False(t, detail.IsOverdue)
	assert.False(t, detail.FeeOutstanding)
	assert.True(t, detail.AccruedFee.Equal(core.MoneyFromString("2.00")), "fee is fixed at return")
	require.Len(t, detail.Transactions, 2)
	assert.ElementsMatch(t,
		[]core.PaymentMethod{core.PaymentMethodReturn, core.PaymentMethodLateFee},
		[]core.PaymentMethod{detail.Transactions[0].PaymentMethod, detail.Transactions[1].PaymentMethod},
	)
	assert.Zero(t, store.EventualReads())
}

func Test_QueryHandler_Handle_OtherOwnersLoanIsNotFound(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	loan := GivenBorrowedLoan(t, member, GivenBook(t, ownerID, "Dune", 0, "10"), FixedNow(), DaysAfter(FixedNow(), 14))
	otherOwnerID := GivenUniqueID(t)
	handler := loandetail.NewQueryHandler(memstore.New().GivenLoan(loan), GivenDefaultSettings(otherOwnerID))

	// act
	_, err := handler.Handle(ctx, loandetail.BuildQuery(otherOwnerID, loan.ID, FixedNow()))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotFound)
}
