// Package circulation provides the storage-facing abstractions shared by the
// library circulation service: sentinel errors, read consistency preferences
// and the dependency-free observability interfaces.
//
// Store implementations (see postgresstore) apply every workflow as one atomic
// changeset. Updates are guarded by an optimistic version column; a guard that
// matches no row surfaces as ErrConcurrencyConflict so callers can reload and
// retry.
//
// Common usage pattern:
//
//	ctx = circulation.WithStrongConsistency(ctx)
//	loan, err := store.LoadLoan(ctx, ownerID, loanID)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Commit(ctx, changeset)
//	if errors.Is(err, circulation.ErrConcurrencyConflict) {
//		// reload and decide again
//	}
package circulation
