package renewloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "RenewLoan"
)

// Command represents the intent to extend a loan's due date.
type Command struct {
	OwnerID       uuid.UUID
	Actor         string
	LoanID        uuid.UUID
	ExtensionDays int
	Override      core.Override
	OccurredAt    core.OccurredAt
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
	extensionDays int,
	override core.Override,
	occurredAt time.Time,
) Command {
	return Command{
		OwnerID:       ownerID,
		Actor:         actor,
		LoanID:        loanID,
		ExtensionDays: extensionDays,
		Override:      override,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
