package returnbook

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the loads and the commit the CommandHandler needs.
type Store interface {
	LoadLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Loan, error)
	LoadBook(ctx context.Context, ownerID, bookID uuid.UUID) (core.Book, error)
	LoadMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Member, error)
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

// Handle executes the return.
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

	state, err := h.load(ctx, command)
	if err != nil {
		return err
	}

	result := Decide(state, command)
	if err := result.HasError(); err != nil {
		return err
	}

	return h.store.Commit(ctx, result.Changeset)
}

func (h CommandHandler) load(ctx context.Context, command Command) (State, error) {
	var state State
	var err error

	state.Loan, state.LoanFound, err = shell.Found(h.store.LoadLoan(ctx, command.OwnerID, command.LoanID))
	if err != nil || !state.LoanFound {
		return state, err
	}

	state.Book, state.BookFound, err = shell.Found(h.store.LoadBook(ctx, command.OwnerID, state.Loan.BookID))
	if err != nil {
		return state, err
	}

	state.Member, state.MemberFound, err = shell.Found(h.store.LoadMember(ctx, command.OwnerID, state.Loan.MemberID))
	if err != nil {
		return state, err
	}

	if state.Settings, err = h.settings.SettingsFor(ctx, command.OwnerID); err != nil {
		return state, err
	}

	return state, nil
}
