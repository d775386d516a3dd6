package addbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book with a number of copies.
type Command struct {
	OwnerID    uuid.UUID
	BookID     uuid.UUID
	Title      string
	Author     string
	ISBN       string
	Category   string
	Stock      int
	Price      core.Money
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
// A nil bookID gets a fresh one; passing the same bookID again makes the command idempotent.
func BuildCommand(
	ownerID uuid.UUID,
	bookID uuid.UUID,
	title, author, isbn, category string,
	stock int,
	price core.Money,
	occurredAt time.Time,
) Command {
	if bookID == uuid.Nil {
		bookID = uuid.New()
	}

	return Command{
		OwnerID:    ownerID,
		BookID:     bookID,
		Title:      title,
		Author:     author,
		ISBN:       isbn,
		Category:   category,
		Stock:      stock,
		Price:      price,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
