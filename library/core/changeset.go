package core

import "github.com/google/uuid"

// Changeset is everything one command writes. The store applies it atomically:
// all inserts and version-guarded updates in one database transaction.
//
// For BookUpdates, MemberTouches and LoanUpdates the Version field carries the
// version that was loaded; the store increments it on write and reports a
// concurrency conflict when the row has moved on.
type Changeset struct {
	OwnerID            uuid.UUID
	BookInserts        Books
	BookUpdates        Books
	MemberInserts      []Member
	MemberTouches      []Member
	LoanInserts        Loans
	LoanUpdates        Loans
	TransactionInserts Transactions
	AuditInserts       []OverrideAudit
	SettingsUpserts    []LibrarySettings
}

// NewChangeset returns an empty changeset for ownerID.
func NewChangeset(ownerID uuid.UUID) Changeset {
	return Changeset{OwnerID: ownerID}
}

// StatementCount returns the number of rows the changeset writes, transaction items excluded.
func (c Changeset) StatementCount() int {
	return len(c.BookInserts) + len(c.BookUpdates) +
		len(c.MemberInserts) + len(c.MemberTouches) +
		len(c.LoanInserts) + len(c.LoanUpdates) +
		len(c.TransactionInserts) + len(c.AuditInserts) +
		len(c.SettingsUpserts)
}

// IsEmpty reports whether there is nothing to write.
func (c Changeset) IsEmpty() bool {
	return c.StatementCount() == 0
}
