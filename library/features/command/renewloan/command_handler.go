package renewloan

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the load and the commit the CommandHandler needs.
type Store interface {
	LoadLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Loan, error)
	Commit(ctx context.Context, changeset core.Changeset) error
}

// CommandHandler runs Load -> Decide -> Commit with retry on concurrency conflicts.
type CommandHandler struct {
	store        Store
	settings     shell.ProvidesSettings
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
func NewCommandHandler(store Store, settings shell.ProvidesSettings, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:    store,
		settings: settings,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the renewal.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	ctx = circulation.WithStrongConsistency(ctx)

	var state State
	var err error

	state.Loan, state.LoanFound, err = shell.Found(h.store.LoadLoan(ctx, command.OwnerID, command.LoanID))
	if err != nil {
		return err
	}

	if state.Settings, err = h.settings.SettingsFor(ctx, command.OwnerID); err != nil {
		return err
	}

	result := Decide(state, command)
	if err := result.HasError(); err != nil {
		return err
	}

	return h.store.Commit(ctx, result.Changeset)
}
