package checkoutbooks

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "CheckoutBooks"
)

// AssignmentType says whether the books are lent or sold.
type AssignmentType string

const (
	AssignmentBorrow   AssignmentType = "borrow"
	AssignmentPurchase AssignmentType = "purchase"
)

// IsValid reports whether a is a known assignment type.
func (a AssignmentType) IsValid() bool {
	return a == AssignmentBorrow || a == AssignmentPurchase
}

// Command represents the intent to check out books to a member.
// LoanIDs parallels BookIDs; together with TransactionID the ids are fixed when the command is
// built, so every retry writes the same rows.
type Command struct {
	OwnerID        uuid.UUID
	Role           core.Role
	Actor          string
	MemberID       uuid.UUID
	BookIDs        []uuid.UUID
	LoanIDs        []uuid.UUID
	TransactionID  uuid.UUID
	AssignmentType AssignmentType
	DurationDays   int
	Override       core.Override
	OccurredAt     core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. durationDays 0 means the owner's default loan period.
func BuildCommand(
	ownerID uuid.UUID,
	role core.Role,
	actor string,
	memberID uuid.UUID,
	bookIDs []uuid.UUID,
	assignmentType AssignmentType,
	durationDays int,
	override core.Override,
	occurredAt time.Time,
) Command {
	loanIDs := make([]uuid.UUID, len(bookIDs))
	for i := range loanIDs {
		loanIDs[i] = uuid.New()
	}

	return Command{
		OwnerID:        ownerID,
		Role:           role,
		Actor:          actor,
		MemberID:       memberID,
		BookIDs:        bookIDs,
		LoanIDs:        loanIDs,
		TransactionID:  uuid.New(),
		AssignmentType: assignmentType,
		DurationDays:   durationDays,
		Override:       override,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
