package shell

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Command is implemented by every command of a feature slice.
// CommandType labels metrics, spans and log records.
type Command interface {
	CommandType() string
}

// Query is implemented by every query of a read view.
type Query interface {
	QueryType() string
}

// CoreCommandHandler runs Load -> Decide -> Commit for one command, including retries.
// It has no observability concerns; see observable.CommandWrapper.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CoreQueryHandler loads and projects one read view.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// LoadsSettings returns the stored settings of an owner. found is false if the owner never saved any.
type LoadsSettings interface {
	LoadSettings(ctx context.Context, ownerID uuid.UUID) (settings core.LibrarySettings, found bool, err error)
}

// CommitsChangesets applies a core.Changeset atomically.
type CommitsChangesets interface {
	Commit(ctx context.Context, changeset core.Changeset) error
}

// ProvidesSettings resolves the effective settings of an owner, defaults included.
// SettingsProvider implements it.
type ProvidesSettings interface {
	SettingsFor(ctx context.Context, ownerID uuid.UUID) (core.LibrarySettings, error)
}
