package registermember

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "RegisterMember"
)

// Command represents the intent to register a member.
type Command struct {
	OwnerID    uuid.UUID
	MemberID   uuid.UUID
	Name       string
	Email      string
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. A nil memberID gets a fresh one.
func BuildCommand(ownerID, memberID uuid.UUID, name, email string, occurredAt time.Time) Command {
	if memberID == uuid.Nil {
		memberID = uuid.New()
	}

	return Command{
		OwnerID:    ownerID,
		MemberID:   memberID,
		Name:       name,
		Email:      email,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
