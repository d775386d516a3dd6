package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/memstore"
)

func setupTestEnvironment(t *testing.T) (context.Context, *memstore.Store, returnbook.State, func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s := givenState(t)
	store := memstore.New().GivenMember(s.Member).GivenBook(s.Book).GivenLoan(s.Loan)

	return ctx, store, s, cancel
}

func createHandler(store *memstore.Store) returnbook.CommandHandler {
	return returnbook.NewCommandHandler(
		store,
		shell.NewSettingsProvider(store),
		returnbook.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
	)
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx, store, s, cleanup := setupTestEnvironment(t)
	defer cleanup()

	// arrange
	command := returnCommand(s, core.ReturnConditionDamaged, core.FeeDispositionNone)

	// act
	result, err := createHandler(store).Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.RetryAttempts)

	loan := store.Loan(s.Loan.ID)
	assert.Equal(t, core.LoanStatusReturned, loan.Status)
	assert.True(t, loan.HasOutstandingFee())
	assert.Equal(t, s.Loan.Version+1, loan.Version)

	book := store.Book(s.Book.ID)
	assert.Equal(t, 1, book.Stock)
	assert.Equal(t, core.BookStatusNeedsRepair, book.Status)
	assert.Equal(t, s.Member.Version+1, store.Member(s.Member.ID).Version)

	txs := store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, command.TransactionID, txs[0].ID)
	assert.Equal(t, s.Loan.ID, *txs[0].LoanID)
}

func Test_CommandHandler_Handle_SecondReturnFails(t *testing.T) {
	// setup
	ctx, store, s, cleanup := setupTestEnvironment(t)
	defer cleanup()

	// arrange
	handler := createHandler(store)
	_, err := handler.Handle(ctx, returnCommand(s, core.ReturnConditionGood, core.FeeDispositionPaid))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, returnCommand(s, core.ReturnConditionGood, core.FeeDispositionPaid))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanAlreadyReturned)
	assert.Equal(t, 1, store.Book(s.Book.ID).Stock)
	assert.Len(t, store.Transactions(), 2)
}

func Test_CommandHandler_Handle_ConcurrentReturnIsDetected(t *testing.T) {
	// setup
	ctx, store, s, cleanup := setupTestEnvironment(t)
	defer cleanup()

	// arrange
	store.BeforeNextCommit(func(ms *memstore.Store) {
		returnedElsewhere := s.Loan
		returnedElsewhere.Status = core.LoanStatusReturned
		returnedElsewhere.Version++
		ms.GivenLoan(returnedElsewhere)
	})

	// act
	result, err := createHandler(store).Handle(ctx, returnCommand(s, core.ReturnConditionGood, core.FeeDispositionPaid))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanAlreadyReturned)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Equal(t, 0, store.Book(s.Book.ID).Stock)
	assert.Empty(t, store.Transactions())
}

func Test_CommandHandler_Handle_LoanOfAnotherOwner(t *testing.T) {
	// setup
	ctx, store, s, cleanup := setupTestEnvironment(t)
	defer cleanup()

	// arrange
	command := returnCommand(s, core.ReturnConditionGood, core.FeeDispositionPaid)
	command.OwnerID = GivenUniqueID(t)

	// act
	_, err := createHandler(store).Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotFound)
	assert.Equal(t, 0, store.CommitCalls())
}

func Test_CommandHandler_Handle_ExhaustedRetriesSurfaceTheConflict(t *testing.T) {
	// setup
	ctx, store, s, cleanup := setupTestEnvironment(t)
	defer cleanup()

	// arrange
	store.FailNextCommits(
		circulation.ErrConcurrencyConflict,
		circulation.ErrConcurrencyConflict,
		circulation.ErrConcurrencyConflict,
	)
	handler := returnbook.NewCommandHandler(
		store,
		shell.NewSettingsProvider(store),
		returnbook.WithRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(0)),
	)

	// act
	result, err := handler.Handle(ctx, returnCommand(s, core.ReturnConditionGood, core.FeeDispositionPaid))

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
	assert.True(t, result.RetriesExhausted)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, core.LoanStatusBorrowed, store.Loan(s.Loan.ID).Status)
}

func Test_CommandHandler_Handle_ReturnOfSoftDeletedBook(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	s := givenState(t)
	deletedAt := DaysBefore(FixedNow(), 1)
	removed := s.Book
	removed.DeletedAt = &deletedAt
	store := memstore.New().GivenMember(s.Member).GivenBook(removed).GivenLoan(s.Loan)

	// act
	_, err := createHandler(store).Handle(ctx, returnCommand(s, core.ReturnConditionGood, core.FeeDispositionWaived))

	// assert
	require.NoError(t, err)

	loan := store.Loan(s.Loan.ID)
	assert.Equal(t, core.LoanStatusReturned, loan.Status)
	assert.True(t, loan.FeeWaived)
	assert.False(t, loan.HasOutstandingFee())

	book := store.Book(s.Book.ID)
	assert.Equal(t, s.Book.Stock, book.Stock)
	assert.Equal(t, s.Book.Version, book.Version)
	assert.True(t, book.IsDeleted())
	require.Len(t, store.Transactions(), 1)
}
