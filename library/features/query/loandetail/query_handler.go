package loandetail

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the loads the QueryHandler needs.
type Store interface {
	LoadLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Loan, error)
	LoadTransactionsForLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Transactions, error)
}

// QueryHandler loads a loan and its transactions.
type QueryHandler struct {
	store       Store
	settings    shell.ProvidesSettings
	consistency func(context.Context) context.Context
}

// Option configures a QueryHandler.
type Option func(*QueryHandler)

// WithStrongConsistency makes the handler read from the primary.
// The HTTP return endpoint uses it to gate the fee disposition on the current due date.
func WithStrongConsistency() Option {
	return func(h *QueryHandler) {
		h.consistency = circulation.WithStrongConsistency
	}
}

// NewQueryHandler creates a new QueryHandler reading with eventual consistency.
func NewQueryHandler(store Store, settings shell.ProvidesSettings, opts ...Option) QueryHandler {
	handler := QueryHandler{
		store:       store,
		settings:    settings,
		consistency: circulation.WithEventualConsistency,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the query. An unknown loan is core.ErrLoanNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanDetail, error) {
	ctx = h.consistency(ctx)

	loan, found, err := shell.Found(h.store.LoadLoan(ctx, query.OwnerID, query.LoanID))
	if err != nil {
		return LoanDetail{}, err
	}

	if !found {
		return LoanDetail{}, core.ErrLoanNotFound
	}

	transactions, err := h.store.LoadTransactionsForLoan(ctx, query.OwnerID, query.LoanID)
	if err != nil {
		return LoanDetail{}, err
	}

	settings, err := h.settings.SettingsFor(ctx, query.OwnerID)
	if err != nil {
		return LoanDetail{}, err
	}

	return Project(loan, transactions, settings, query), nil
}
