package memberloans

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
	LoadLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error)
}

// QueryHandler loads the loans of a member and projects them.
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
func (h QueryHandler) Handle(ctx context.Context, query Query) (MemberLoans, error) {
	ctx = circulation.WithEventualConsistency(ctx)

	_, found, err := shell.Found(h.store.LoadMember(ctx, query.OwnerID, query.MemberID))
	if err != nil {
		return MemberLoans{}, err
	}

	if !found {
		return MemberLoans{}, core.ErrMemberNotFound
	}

	loans, err := h.store.LoadLoansByMember(ctx, query.OwnerID, query.MemberID)
	if err != nil {
		return MemberLoans{}, err
	}

	settings, err := h.settings.SettingsFor(ctx, query.OwnerID)
	if err != nil {
		return MemberLoans{}, err
	}

	return Project(loans, settings, query), nil
}
