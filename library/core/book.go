package core

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is the shelf status of a book.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "Available"
	BookStatusCheckedOut  BookStatus = "Checked Out"
	BookStatusOnHold      BookStatus = "On Hold"
	BookStatusProcessing  BookStatus = "Processing"
	BookStatusLost        BookStatus = "Lost"
	BookStatusOutOfStock  BookStatus = "Out of Stock"
	BookStatusNeedsRepair BookStatus = "Needs Repair"
)

// IsValid reports whether s is a known status.
func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusAvailable, BookStatusCheckedOut, BookStatusOnHold, BookStatusProcessing,
		BookStatusLost, BookStatusOutOfStock, BookStatusNeedsRepair:
		return true
	default:
		return false
	}
}

// Book is a catalog title with a number of copies on the shelf.
// Version is the optimistic lock the store guards updates with.
type Book struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Author    string
	ISBN      string
	Category  string
	Stock     int
	Status    BookStatus
	Price     Money
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Books is a list of books.
type Books []Book

// IsDeleted reports whether the book was soft-deleted.
func (b Book) IsDeleted() bool {
	return b.DeletedAt != nil
}

// HasStock reports whether at least one copy is on the shelf.
func (b Book) HasStock() bool {
	return b.Stock > 0
}

// CheckedOut returns the book with one copy less on the shelf.
// The status follows the remaining stock so that zero stock is never Available.
func (b Book) CheckedOut(at time.Time) Book {
	b.Stock--
	if b.Stock > 0 {
		b.Status = BookStatusAvailable
	} else {
		b.Status = BookStatusCheckedOut
	}
	b.UpdatedAt = at

	return b
}

// Returned returns the book with the returned copy back on the shelf.
// A damaged copy sends the book to repair.
func (b Book) Returned(condition ReturnCondition, at time.Time) Book {
	b.Stock++
	if condition == ReturnConditionDamaged {
		b.Status = BookStatusNeedsRepair
	} else {
		b.Status = BookStatusAvailable
	}
	b.UpdatedAt = at

	return b
}

// InitialBookStatus returns the status of a newly added book with the given stock.
func InitialBookStatus(stock int) BookStatus {
	if stock > 0 {
		return BookStatusAvailable
	}

	return BookStatusOutOfStock
}
