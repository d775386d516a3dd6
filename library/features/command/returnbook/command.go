package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to return the copy of a loan.
// BookID is optional; when set it must match the loan's book.
type Command struct {
	OwnerID          uuid.UUID
	Actor            string
	LoanID           uuid.UUID
	BookID           uuid.UUID
	Condition        core.ReturnCondition
	ConditionNotes   string
	FeeDisposition   core.FeeDisposition
	TransactionID    uuid.UUID
	FeeTransactionID uuid.UUID
	OccurredAt       core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(
	ownerID uuid.UUID,
	actor string,
	loanID uuid.UUID,
	bookID uuid.UUID,
	condition core.ReturnCondition,
	conditionNotes string,
	feeDisposition core.FeeDisposition,
	occurredAt time.Time,
) Command {
	return Command{
		OwnerID:          ownerID,
		Actor:            actor,
		LoanID:           loanID,
		BookID:           bookID,
		Condition:        condition,
		ConditionNotes:   conditionNotes,
		FeeDisposition:   feeDisposition,
		TransactionID:    uuid.New(),
		FeeTransactionID: uuid.New(),
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}
