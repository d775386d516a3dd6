package updatesettings

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

const logMsgInvalidationFailed = "settings cache invalidation failed"

// Store defines the load and the commit the CommandHandler needs.
// It must read the database, not a cache.
type Store interface {
	LoadSettings(ctx context.Context, ownerID uuid.UUID) (core.LibrarySettings, bool, error)
	Commit(ctx context.Context, changeset core.Changeset) error
}

// InvalidatesSettings drops cached settings of an owner. settingscache.Cache implements it.
type InvalidatesSettings interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// CommandHandler runs Load -> Decide -> Commit and then invalidates the cache.
type CommandHandler struct {
	store        Store
	invalidator  InvalidatesSettings
	logger       shell.Logger
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

// WithCacheInvalidation invalidates the owner's cached settings after every commit.
func WithCacheInvalidation(invalidator InvalidatesSettings) Option {
	return func(h *CommandHandler) {
		h.invalidator = invalidator
	}
}

// WithLogger logs failed invalidations.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
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

// Handle stores the settings.
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

	h.invalidate(ctx, command.OwnerID)

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	ctx = circulation.WithStrongConsistency(ctx)

	current, found, err := h.store.LoadSettings(ctx, command.OwnerID)
	if err != nil {
		return false, err
	}

	result := Decide(State{Current: current, Found: found}, command)
	if result.IsIdempotent() {
		return true, nil
	}

	if err := result.HasError(); err != nil {
		return false, err
	}

	return false, h.store.Commit(ctx, result.Changeset)
}

func (h CommandHandler) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if h.invalidator == nil {
		return
	}

	if err := h.invalidator.Invalidate(ctx, ownerID); err != nil && h.logger != nil {
		h.logger.Warn(logMsgInvalidationFailed, shell.LogAttrOwnerID, ownerID.String(), shell.LogAttrError, err.Error())
	}
}
