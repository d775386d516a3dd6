package registermember

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the load and the commit the CommandHandler needs.
type Store interface {
	LoadMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Member, error)
	Commit(ctx context.Context, changeset core.Changeset) error
}

// CommandHandler runs Load -> Decide -> Commit.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store: store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle registers the member.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	ctx = circulation.WithStrongConsistency(ctx)

	_, found, err := shell.Found(h.store.LoadMember(ctx, command.OwnerID, command.MemberID))
	if err != nil {
		return false, err
	}

	result := Decide(State{MemberExists: found}, command)
	if result.IsIdempotent() {
		return true, nil
	}

	if err := result.HasError(); err != nil {
		return false, err
	}

	return false, h.store.Commit(ctx, result.Changeset)
}
