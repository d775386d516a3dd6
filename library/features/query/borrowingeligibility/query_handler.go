package borrowingeligibility

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// Store defines the loads the QueryHandler needs.
type Store interface {
	LoadMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Member, error)
	LoadOpenLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error)
}

// QueryHandler loads the member state and evaluates the borrowing checks.
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

// Handle executes the query. An unknown member is core.ErrMemberNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Eligibility, error) {
	ctx = circulation.WithEventualConsistency(ctx)

	member, found, err := shell.Found(h.store.LoadMember(ctx, query.OwnerID, query.MemberID))
	if err != nil {
		return Eligibility{}, err
	}

	if !found {
		return Eligibility{}, core.ErrMemberNotFound
	}

	openLoans, err := h.store.LoadOpenLoansByMember(ctx, query.OwnerID, query.MemberID)
	if err != nil {
		return Eligibility{}, err
	}

	settings, err := h.settings.SettingsFor(ctx, query.OwnerID)
	if err != nil {
		return Eligibility{}, err
	}

	return Project(member, openLoans, settings, query), nil
}
