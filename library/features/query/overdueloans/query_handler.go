package overdueloans

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the load the QueryHandler needs.
type Store interface {
	LoadOverdueLoans(ctx context.Context, ownerID uuid.UUID, now time.Time) (core.Loans, error)
}

// QueryHandler loads and projects the overdue loans of an owner.
type QueryHandler struct {
	store    Store
	settings shell.ProvidesSettings
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store, settings shell.ProvidesSettings) QueryHandler {
	return QueryHandler{
		store:    store,
		settings: settings,
	}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueLoans, error) {
	ctx = circulation.WithEventualConsistency(ctx)

	loans, err := h.store.LoadOverdueLoans(ctx, query.OwnerID, query.AsOf)
	if err != nil {
		return OverdueLoans{}, err
	}

	settings, err := h.settings.SettingsFor(ctx, query.OwnerID)
	if err != nil {
		return OverdueLoans{}, err
	}

	return Project(loans, settings, query), nil
}
