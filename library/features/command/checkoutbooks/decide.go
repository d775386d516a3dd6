package checkoutbooks

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on, loaded in one pass by the CommandHandler.
type State struct {
	Member      core.Member
	MemberFound bool
	Books       core.Books
	OpenLoans   core.Loans
	Settings    core.LibrarySettings
}

// Decide implements the checkout rules. It is a pure function: it returns either the changeset
// to commit or the first rule violation.
//
// Business Rules:
//
//	GIVEN: An active member and books with stock
//	WHEN: CheckoutBooks is received
//	THEN: borrow: one Borrowed loan per book and one Borrow (Library) or Rent (Book Store) transaction at price 0
//	THEN: purchase: one Cash transaction over the book prices
//	THEN: every book loses one copy; a book without copies left is Checked Out
//	ERROR: "member not found", "member is not active"
//	ERROR: "book not found", "<title> is out of stock"
//	ERROR: "<title> is already borrowed by this member" (borrow only)
//	ERROR: borrowing limit or unpaid late fee limit reached (borrow without override)
func Decide(s State, command Command) core.DecisionResult {
	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	if !s.MemberFound {
		return core.ErrorDecision(core.ErrMemberNotFound)
	}

	if !s.Member.IsActive() {
		return core.ErrorDecision(core.ErrMemberNotActive)
	}

	books, found := inCommandOrder(s.Books, command.BookIDs)
	if !found {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	for _, book := range books {
		if !book.HasStock() {
			return core.ErrorDecision(core.OutOfStock(book.Title))
		}
	}

	if command.AssignmentType == AssignmentPurchase {
		return core.SuccessDecision(purchase(s, books, command))
	}

	for _, book := range books {
		if _, borrowed := s.OpenLoans.ActiveForBook(book.ID); borrowed {
			return core.ErrorDecision(core.AlreadyBorrowed(book.Title))
		}
	}

	if !command.Override.Enabled {
		if err := checkLimits(s, len(books)); err != nil {
			return core.ErrorDecision(err)
		}
	}

	return core.SuccessDecision(borrow(s, books, command))
}

func validate(command Command) error {
	if len(command.BookIDs) == 0 {
		return core.InvalidCommand("at least one book is required")
	}

	if len(command.LoanIDs) != len(command.BookIDs) {
		return core.InvalidCommand("one loan id per book is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(command.BookIDs))
	for _, id := range command.BookIDs {
		if _, dup := seen[id]; dup {
			return core.ErrDuplicateBookInCheckout
		}
		seen[id] = struct{}{}
	}

	if !command.AssignmentType.IsValid() {
		return core.ErrInvalidAssignmentType
	}

	if !command.Role.IsValid() {
		return core.InvalidCommand("unknown role " + string(command.Role))
	}

	if command.DurationDays < 0 {
		return core.InvalidCommand("duration days must not be negative")
	}

	return command.Override.Validate()
}

// checkLimits applies both borrowing limit rules. They are checked again here, inside the
// retried load-decide-commit cycle, so a concurrent checkout cannot push a member past the limit.
func checkLimits(s State, requested int) error {
	limit := core.CanMemberBorrowBooks(s.OpenLoans.CountActive(), requested, s.Settings.BorrowingLimit)
	if !limit.Allowed {
		return core.BorrowingLimitReached(limit)
	}

	fees := core.CheckUnpaidLateFees(s.OpenLoans.CountOutstandingFees(), s.Settings.UnpaidFeeLoanLimit)
	if !fees.Allowed {
		return core.UnpaidLateFees(fees)
	}

	return nil
}

func borrow(s State, books core.Books, command Command) core.Changeset {
	now := command.OccurredAt
	dueDate := DueDate(s.Settings, command)

	cs := core.NewChangeset(command.OwnerID)
	items := make([]core.TransactionItem, 0, len(books))

	for i, book := range books {
		cs.LoanInserts = append(cs.LoanInserts, core.Loan{
			ID:            command.LoanIDs[i],
			OwnerID:       command.OwnerID,
			BookID:        book.ID,
			MemberID:      command.MemberID,
			CheckoutDate:  now,
			DueDate:       dueDate,
			Status:        core.LoanStatusBorrowed,
			LateFeeAmount: core.Zero,
			Version:       1,
		})
		cs.BookUpdates = append(cs.BookUpdates, book.CheckedOut(now))
		items = append(items, core.TransactionItem{BookID: book.ID, Price: core.Zero})
	}

	cs.TransactionInserts = core.Transactions{transaction(command, command.Role.LendingPaymentMethod(), core.Zero, items)}
	cs.MemberTouches = []core.Member{s.Member}

	if command.Override.Enabled {
		cs.AuditInserts = []core.OverrideAudit{
			command.Override.AuditFor(command.OwnerID, commandType, command.MemberID, command.TransactionID, now),
		}
	}

	return cs
}

func purchase(s State, books core.Books, command Command) core.Changeset {
	now := command.OccurredAt

	cs := core.NewChangeset(command.OwnerID)
	items := make([]core.TransactionItem, 0, len(books))
	total := core.Zero

	for _, book := range books {
		cs.BookUpdates = append(cs.BookUpdates, book.CheckedOut(now))
		items = append(items, core.TransactionItem{BookID: book.ID, Price: book.Price})
		total = total.Add(book.Price)
	}

	cs.TransactionInserts = core.Transactions{transaction(command, core.PaymentMethodCash, total, items)}
	cs.MemberTouches = []core.Member{s.Member}

	return cs
}

func transaction(command Command, method core.PaymentMethod, total core.Money, items []core.TransactionItem) core.Transaction {
	return core.Transaction{
		ID:            command.TransactionID,
		OwnerID:       command.OwnerID,
		MemberID:      command.MemberID,
		Status:        core.TransactionStatusCompleted,
		PaymentMethod: method,
		TotalAmount:   total,
		CreatedAt:     command.OccurredAt,
		Items:         items,
	}
}

func loanDays(settings core.LibrarySettings, command Command) int {
	if command.DurationDays > 0 {
		return command.DurationDays
	}

	return settings.DefaultLoanDays
}

// inCommandOrder returns the loaded books in the order they were requested,
// or false if any of them was not loaded.
func inCommandOrder(loaded core.Books, ids []uuid.UUID) (core.Books, bool) {
	byID := make(map[uuid.UUID]core.Book, len(loaded))
	for _, b := range loaded {
		byID[b.ID] = b
	}

	books := make(core.Books, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, false
		}
		books = append(books, b)
	}

	return books, true
}

// DueDate returns the due date a borrow of command would get.
func DueDate(settings core.LibrarySettings, command Command) time.Time {
	return command.OccurredAt.AddDate(0, 0, loanDays(settings, command))
}
