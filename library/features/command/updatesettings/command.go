package updatesettings

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	commandType = "UpdateLibrarySettings"
)

// Command represents the intent to store new settings for an owner.
type Command struct {
	OwnerID    uuid.UUID
	Actor      string
	Settings   core.LibrarySettings
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. The settings are bound to ownerID.
func BuildCommand(ownerID uuid.UUID, actor string, settings core.LibrarySettings, occurredAt time.Time) Command {
	settings.OwnerID = ownerID

	return Command{
		OwnerID:    ownerID,
		Actor:      actor,
		Settings:   settings,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
