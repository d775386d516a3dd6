package addbook

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	BookExists bool
}

// Decide implements the business logic to add a book.
//
// Business Rules:
//
//	GIVEN: A book ID that is not in the catalog
//	WHEN: AddBook is received
//	THEN: the book is inserted, Available with stock or Out of Stock without
//	IDEMPOTENCY: a book with this ID already exists
//	ERROR: "invalid command" for an empty title, negative stock or negative price
func Decide(s State, command Command) core.DecisionResult {
	switch {
	case strings.TrimSpace(command.Title) == "":
		return core.ErrorDecision(core.InvalidCommand("title is required"))
	case command.Stock < 0:
		return core.ErrorDecision(core.InvalidCommand("stock must not be negative"))
	case command.Price.IsNegative():
		return core.ErrorDecision(core.InvalidCommand("price must not be negative"))
	}

	if s.BookExists {
		return core.IdempotentDecision()
	}

	cs := core.NewChangeset(command.OwnerID)
	cs.BookInserts = core.Books{{
		ID:        command.BookID,
		OwnerID:   command.OwnerID,
		Title:     strings.TrimSpace(command.Title),
		Author:    command.Author,
		ISBN:      command.ISBN,
		Category:  command.Category,
		Stock:     command.Stock,
		Status:    core.InitialBookStatus(command.Stock),
		Price:     command.Price,
		Version:   1,
		CreatedAt: command.OccurredAt,
		UpdatedAt: command.OccurredAt,
	}}

	return core.SuccessDecision(cs)
}
