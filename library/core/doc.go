// Package core contains the domain model and the pure business rules of the
// library circulation service: books, members, loans, transactions, per-owner
// library settings, late fee calculation and borrowing limit checks.
//
// Nothing in this package performs I/O. Command features load state through the
// shell, hand it to a Decide function together with the command, and commit the
// resulting Changeset. The same rules therefore hold whether the state came from
// Postgres or from an in-memory fake.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
