package settlelatefee

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "SettleLateFee"
)

// Command represents the intent to mark a late fee as paid or waived.
type Command struct {
	OwnerID       uuid.UUID
	Actor         string
	LoanID        uuid.UUID
	Disposition   core.FeeDisposition
	TransactionID uuid.UUID
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
	disposition core.FeeDisposition,
	occurredAt time.Time,
) Command {
	return Command{
		OwnerID:       ownerID,
		Actor:         actor,
		LoanID:        loanID,
		Disposition:   disposition,
		TransactionID: uuid.New(),
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
