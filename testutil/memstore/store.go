package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Store holds all rows of all owners. It is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	books        map[uuid.UUID]core.Book
	members      map[uuid.UUID]core.Member
	loans        map[uuid.UUID]core.Loan
	transactions []core.Transaction
	audits       []core.OverrideAudit
	settings     map[uuid.UUID]core.LibrarySettings

	commits       int
	commitCalls   int
	failNext      []error
	beforeCommit  func(s *Store)
	loadErr       error
	eventualReads int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		books:    make(map[uuid.UUID]core.Book),
		members:  make(map[uuid.UUID]core.Member),
		loans:    make(map[uuid.UUID]core.Loan),
		settings: make(map[uuid.UUID]core.LibrarySettings),
	}
}

// GivenBook stores b as is.
func (s *Store) GivenBook(b core.Book) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[b.ID] = b

	return s
}

// GivenMember stores m as is.
func (s *Store) GivenMember(m core.Member) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[m.ID] = m

	return s
}

// GivenLoan stores l as is.
func (s *Store) GivenLoan(l core.Loan) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans[l.ID] = l

	return s
}

// GivenTransaction stores t as is.
func (s *Store) GivenTransaction(t core.Transaction) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, t)

	return s
}

// GivenSettings stores the settings of settings.OwnerID.
func (s *Store) GivenSettings(settings core.LibrarySettings) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[settings.OwnerID] = settings

	return s
}

// FailNextCommits makes the next commits fail with errs, in order, without writing anything.
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failNext = append(s.failNext, errs...)
}

// BeforeNextCommit runs fn once, right before the next commit is applied.
// fn may use the Given methods to simulate a concurrent writer.
func (s *Store) BeforeNextCommit(fn func(s *Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.beforeCommit = fn
}

// FailLoads makes every load return err until it is called with nil.
func (s *Store) FailLoads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadErr = err
}

// Book returns the stored book.
func (s *Store) Book(id uuid.UUID) core.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.books[id]
}

// Member returns the stored member.
func (s *Store) Member(id uuid.UUID) core.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.members[id]
}

// Loan returns the stored loan.
func (s *Store) Loan(id uuid.UUID) core.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loans[id]
}

// LoansOf returns the stored loans of memberID in no particular order.
func (s *Store) LoansOf(memberID uuid.UUID) core.Loans {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loans core.Loans
	for _, l := range s.loans {
		if l.MemberID == memberID {
			loans = append(loans, l)
		}
	}

	return loans
}

// Transactions returns all stored transactions in insertion order.
func (s *Store) Transactions() core.Transactions {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.transactions)
}

// Audits returns all stored override audits in insertion order.
func (s *Store) Audits() []core.OverrideAudit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.audits)
}

// StoredSettings returns the stored settings of ownerID, if any.
func (s *Store) StoredSettings(ownerID uuid.UUID) (core.LibrarySettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, ok := s.settings[ownerID]

	return settings, ok
}

// CommitCount returns the number of applied changesets.
func (s *Store) CommitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commits
}

// CommitCalls returns the number of Commit calls, failed ones included.
func (s *Store) CommitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitCalls
}

// EventualReads returns how many loads ran with eventual consistency.
func (s *Store) EventualReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eventualReads
}

func (s *Store) beginLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.loadErr != nil {
		return s.loadErr
	}

	if circulation.GetConsistencyLevel(ctx) == circulation.EventualConsistency {
		s.eventualReads++
	}

	return nil
}

// LoadBook returns circulation.ErrNotFound for unknown, foreign or deleted books.
func (s *Store) LoadBook(ctx context.Context, ownerID, bookID uuid.UUID) (core.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return core.Book{}, err
	}

	b, ok := s.books[bookID]
	if !ok || b.OwnerID != ownerID || b.IsDeleted() {
		return core.Book{}, circulation.ErrNotFound
	}

	return b, nil
}

// LoadBooks omits unknown, foreign and deleted books.
func (s *Store) LoadBooks(ctx context.Context, ownerID uuid.UUID, bookIDs []uuid.UUID) (core.Books, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return nil, err
	}

	var books core.Books
	for _, id := range bookIDs {
		b, ok := s.books[id]
		if ok && b.OwnerID == ownerID && !b.IsDeleted() {
			books = append(books, b)
		}
	}

	slices.SortFunc(books, func(a, b core.Book) int { return compareIDs(a.ID, b.ID) })

	return books, nil
}

// LoadMember returns circulation.ErrNotFound for unknown, foreign or deleted members.
func (s *Store) LoadMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return core.Member{}, err
	}

	m, ok := s.members[memberID]
	if !ok || m.OwnerID != ownerID || m.DeletedAt != nil {
		return core.Member{}, circulation.ErrNotFound
	}

	return m, nil
}

// LoadLoan returns circulation.ErrNotFound for unknown or foreign loans.
func (s *Store) LoadLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return core.Loan{}, err
	}

	l, ok := s.loans[loanID]
	if !ok || l.OwnerID != ownerID {
		return core.Loan{}, circulation.ErrNotFound
	}

	return l, nil
}

// LoadOpenLoansByMember returns active loans and returned loans with an outstanding fee.
func (s *Store) LoadOpenLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error) {
	return s.filterLoans(ctx, func(l core.Loan) bool {
		return l.OwnerID == ownerID && l.MemberID == memberID && (l.IsActive() || l.HasOutstandingFee())
	}, byCheckoutDesc)
}

// LoadLoansByMember returns all loans of memberID, newest checkout first.
func (s *Store) LoadLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error) {
	return s.filterLoans(ctx, func(l core.Loan) bool {
		return l.OwnerID == ownerID && l.MemberID == memberID
	}, byCheckoutDesc)
}

// LoadOverdueLoans returns active loans due before now, earliest due date first.
func (s *Store) LoadOverdueLoans(ctx context.Context, ownerID uuid.UUID, now time.Time) (core.Loans, error) {
	return s.filterLoans(ctx, func(l core.Loan) bool {
		return l.OwnerID == ownerID && l.IsActive() && l.DueDate.Before(now)
	}, func(a, b core.Loan) int { return a.DueDate.Compare(b.DueDate) })
}

// LoadTransactionsForLoan returns the transactions linked to loanID.
func (s *Store) LoadTransactionsForLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Transactions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return nil, err
	}

	var txs core.Transactions
	for _, t := range s.transactions {
		if t.OwnerID == ownerID && t.LoanID != nil && *t.LoanID == loanID {
			txs = append(txs, t)
		}
	}

	return txs, nil
}

// LoadSettings returns the stored settings of ownerID.
func (s *Store) LoadSettings(ctx context.Context, ownerID uuid.UUID) (core.LibrarySettings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return core.LibrarySettings{}, false, err
	}

	settings, ok := s.settings[ownerID]

	return settings, ok, nil
}

func (s *Store) filterLoans(
	ctx context.Context,
	keep func(core.Loan) bool,
	order func(a, b core.Loan) int,
) (core.Loans, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.beginLoad(ctx); err != nil {
		return nil, err
	}

	var loans core.Loans
	for _, l := range s.loans {
		if keep(l) {
			loans = append(loans, l)
		}
	}

	slices.SortFunc(loans, order)

	return loans, nil
}

func byCheckoutDesc(a, b core.Loan) int {
	return b.CheckoutDate.Compare(a.CheckoutDate)
}

func compareIDs(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}
