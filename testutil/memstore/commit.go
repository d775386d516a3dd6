package memstore

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

var (
	errCheckViolation      = errors.New("books_no_available_without_stock violated")
	errForeignKeyViolation = errors.New("foreign key violated")
)

// rows is one snapshot of the mutable tables. A changeset is applied to a copy
// and swapped in only when every statement went through.
type rows struct {
	books        map[uuid.UUID]core.Book
	members      map[uuid.UUID]core.Member
	loans        map[uuid.UUID]core.Loan
	transactions []core.Transaction
	audits       []core.OverrideAudit
	settings     map[uuid.UUID]core.LibrarySettings
}

// Commit applies cs atomically with the same conflict rules as the Postgres store.
func (s *Store) Commit(ctx context.Context, cs core.Changeset) error {
	s.mu.Lock()
	hook := s.beforeCommit
	s.beforeCommit = nil
	s.mu.Unlock()

	if hook != nil {
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitCalls++

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.failNext) > 0 {
		err := s.failNext[0]
		s.failNext = s.failNext[1:]

		return err
	}

	if cs.IsEmpty() {
		return circulation.ErrEmptyChangeset
	}

	staged := rows{
		books:        maps.Clone(s.books),
		members:      maps.Clone(s.members),
		loans:        maps.Clone(s.loans),
		transactions: slices.Clone(s.transactions),
		audits:       slices.Clone(s.audits),
		settings:     maps.Clone(s.settings),
	}

	if err := staged.apply(cs); err != nil {
		return err
	}

	s.books = staged.books
	s.members = staged.members
	s.loans = staged.loans
	s.transactions = staged.transactions
	s.audits = staged.audits
	s.settings = staged.settings
	s.commits++

	return nil
}

func (r *rows) apply(cs core.Changeset) error {
	for _, b := range cs.BookInserts {
		if _, exists := r.books[b.ID]; exists {
			return circulation.ErrConcurrencyConflict
		}

		if err := checkStock(b); err != nil {
			return err
		}

		r.books[b.ID] = b
	}

	for _, m := range cs.MemberInserts {
		if _, exists := r.members[m.ID]; exists {
			return circulation.ErrConcurrencyConflict
		}

		r.members[m.ID] = m
	}

	for _, b := range cs.BookUpdates {
		stored, ok := r.books[b.ID]
		if !ok || stored.OwnerID != cs.OwnerID || stored.Version != b.Version {
			return circulation.ErrConcurrencyConflict
		}

		stored.Stock = b.Stock
		stored.Status = b.Status
		stored.UpdatedAt = b.UpdatedAt
		stored.Version++

		if err := checkStock(stored); err != nil {
			return err
		}

		r.books[b.ID] = stored
	}

	for _, m := range cs.MemberTouches {
		stored, ok := r.members[m.ID]
		if !ok || stored.OwnerID != cs.OwnerID || stored.Version != m.Version {
			return circulation.ErrConcurrencyConflict
		}

		stored.Version++
		r.members[m.ID] = stored
	}

	for _, l := range cs.LoanInserts {
		if _, exists := r.loans[l.ID]; exists {
			return circulation.ErrConcurrencyConflict
		}

		if l.IsActive() && r.hasActiveLoan(l.OwnerID, l.MemberID, l.BookID) {
			return circulation.ErrConcurrencyConflict
		}

		r.loans[l.ID] = l
	}

	for _, l := range cs.LoanUpdates {
		stored, ok := r.loans[l.ID]
		if !ok || stored.OwnerID != cs.OwnerID || stored.Version != l.Version {
			return circulation.ErrConcurrencyConflict
		}

		updated := l
		updated.OwnerID = stored.OwnerID
		updated.BookID = stored.BookID
		updated.MemberID = stored.MemberID
		updated.CheckoutDate = stored.CheckoutDate
		updated.Version = stored.Version + 1
		r.loans[l.ID] = updated
	}

	for _, t := range cs.TransactionInserts {
		if t.LoanID != nil {
			if _, ok := r.loans[*t.LoanID]; !ok {
				return errors.Join(circulation.ErrExecutingStatementFailed, errForeignKeyViolation)
			}
		}

		r.transactions = append(r.transactions, t)
	}

	r.audits = append(r.audits, cs.AuditInserts...)

	for _, settings := range cs.SettingsUpserts {
		r.settings[settings.OwnerID] = settings
	}

	return nil
}

func (r *rows) hasActiveLoan(ownerID, memberID, bookID uuid.UUID) bool {
	for _, l := range r.loans {
		if l.OwnerID == ownerID && l.MemberID == memberID && l.BookID == bookID && l.IsActive() {
			return true
		}
	}

	return false
}

func checkStock(b core.Book) error {
	if b.Stock < 0 || (b.Stock == 0 && b.Status == core.BookStatusAvailable) {
		return errors.Join(circulation.ErrExecutingStatementFailed, errCheckViolation)
	}

	return nil
}
