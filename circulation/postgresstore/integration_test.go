package postgresstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/pgtest"
)

func Test_Integration_CommitAndLoadLoans(t *testing.T) {
	// arrange
	store := pgtest.NewStore(t)
	ctx := context.Background()
	now := FixedNow()
	ownerID := GivenUniqueID(t)
	member := GivenActiveMember(t, ownerID)
	book := GivenBook(t, ownerID, "Dune", 2, "12.99")
	loan := GivenBorrowedLoan(t, member, book, DaysBefore(now, 20), DaysBefore(now, 6))

	catalog := core.NewChangeset(ownerID)
	catalog.BookInserts = core.Books{book}
	catalog.MemberInserts = []core.Member{member}
	require.NoError(t, store.Commit(ctx, catalog))

	checkout := core.NewChangeset(ownerID)
	checkout.BookUpdates = core.Books{book.CheckedOut(DaysBefore(now, 20))}
	checkout.LoanInserts = core.Loans{loan}

	// act
	err := store.Commit(ctx, checkout)

	// assert
	require.NoError(t, err)

	loadedBook, err := store.LoadBook(ctx, ownerID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loadedBook.Stock)
	assert.Equal(t, int64(2), loadedBook.Version)
	assert.True(t, book.Price.Equal(loadedBook.Price))

	loadedLoan, err := store.LoadLoan(ctx, ownerID, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusBorrowed, loadedLoan.Status)
	assert.True(t, loan.DueDate.Equal(loadedLoan.DueDate))

	overdue, err := store.LoadOverdueLoans(ctx, ownerID, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, loan.ID, overdue[0].ID)

	open, err := store.LoadOpenLoansByMember(ctx, ownerID, member.ID)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func Test_Integration_StaleUpdateIsConflict(t *testing.T) {
	// arrange
	store := pgtest.NewStore(t)
	ctx := context.Background()
	ownerID := GivenUniqueID(t)
	book := GivenBook(t, ownerID, "Dune", 2, "12.99")

	insert := core.NewChangeset(ownerID)
	insert.BookInserts = core.Books{book}
	require.NoError(t, store.Commit(ctx, insert))

	update := core.NewChangeset(ownerID)
	update.BookUpdates = core.Books{book.CheckedOut(FixedNow())}
	require.NoError(t, store.Commit(ctx, update))

	// act
	err := store.Commit(ctx, update)

	// assert
	assert.ErrorIs(t, err, circulation.ErrConcurrencyConflict)
}

func Test_Integration_SettingsUpsert(t *testing.T) {
	// arrange
	store := pgtest.NewStore(t)
	ctx := context.Background()
	ownerID := GivenUniqueID(t)

	_, found, err := store.LoadSettings(ctx, ownerID)
	require.NoError(t, err)
	require.False(t, found)

	settings := core.DefaultLibrarySettingsFor(ownerID)
	settings.BorrowingLimit = 8
	settings.UpdatedAt = FixedNow()

	upsert := core.NewChangeset(ownerID)
	upsert.SettingsUpserts = []core.LibrarySettings{settings}

	// act
	first := store.Commit(ctx, upsert)
	second := store.Commit(ctx, upsert)

	// assert
	require.NoError(t, first)
	require.NoError(t, second)
	loaded, found, err := store.LoadSettings(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 8, loaded.BorrowingLimit)
	assert.NoError(t, store.Ping(ctx))
}

func Test_Integration_UnknownBookIsNotFound(t *testing.T) {
	// arrange
	store := pgtest.NewStore(t)

	// act
	_, err := store.LoadBook(context.Background(), GivenUniqueID(t), GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}
