package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// GivenActiveMember returns an active member of ownerID at version 1.
func GivenActiveMember(t testing.TB, ownerID uuid.UUID) core.Member {
	t.Helper()

	return core.Member{
		ID:        GivenUniqueID(t),
		OwnerID:   ownerID,
		Name:      "Ada Lovelace",
		Email:     "ada@example.org",
		Status:    core.MemberStatusActive,
		Version:   1,
		CreatedAt: DaysBefore(FixedNow(), 100),
	}
}

// GivenBook returns a book of ownerID with stock copies at version 1.
func GivenBook(t testing.TB, ownerID uuid.UUID, title string, stock int, price string) core.Book {
	t.Helper()

	return core.Book{
		ID:        GivenUniqueID(t),
		OwnerID:   ownerID,
		Title:     title,
		Author:    "Frank Herbert",
		ISBN:      "978-0-441-17271-9",
		Category:  "Fiction",
		Stock:     stock,
		Status:    core.InitialBookStatus(stock),
		Price:     core.MoneyFromString(price),
		Version:   1,
		CreatedAt: DaysBefore(FixedNow(), 200),
		UpdatedAt: DaysBefore(FixedNow(), 200),
	}
}

// GivenBorrowedLoan returns an active loan checked out at checkout and due at due.
func GivenBorrowedLoan(t testing.TB, member core.Member, book core.Book, checkout, due time.Time) core.Loan {
	t.Helper()

	return core.Loan{
		ID:            GivenUniqueID(t),
		OwnerID:       member.OwnerID,
		BookID:        book.ID,
		MemberID:      member.ID,
		CheckoutDate:  checkout,
		DueDate:       due,
		Status:        core.LoanStatusBorrowed,
		LateFeeAmount: core.Zero,
		Version:       1,
	}
}

// GivenReturnedLoanWithFee returns a returned loan carrying an outstanding fee.
func GivenReturnedLoanWithFee(t testing.TB, member core.Member, book core.Book, fee string) core.Loan {
	t.Helper()

	returned := DaysBefore(FixedNow(), 2)
	loan := GivenBorrowedLoan(t, member, book, DaysBefore(FixedNow(), 30), DaysBefore(FixedNow(), 16))
	loan.Status = core.LoanStatusReturned
	loan.ReturnDate = &returned
	loan.ReturnCondition = core.ReturnConditionGood
	loan.LateFeeAmount = core.MoneyFromString(fee)

	return loan
}

// SettingsStub is a shell.ProvidesSettings returning fixed settings.
type SettingsStub struct {
	Settings core.LibrarySettings
	Err      error
}

// GivenDefaultSettings returns a SettingsStub with the default policy of ownerID.
func GivenDefaultSettings(ownerID uuid.UUID) SettingsStub {
	return SettingsStub{Settings: core.DefaultLibrarySettingsFor(ownerID)}
}

// SettingsFor returns the stubbed settings, bound to ownerID.
func (s SettingsStub) SettingsFor(_ context.Context, ownerID uuid.UUID) (core.LibrarySettings, error) {
	if s.Err != nil {
		return core.LibrarySettings{}, s.Err
	}

	settings := s.Settings
	settings.OwnerID = ownerID

	return settings, nil
}
