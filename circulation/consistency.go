package circulation

import "context"

// ConsistencyLevel tells a store which database node may serve a read.
type ConsistencyLevel int

const (
	// StrongConsistency routes reads to the primary. Command handlers load the
	// state they decide on with this level so the version they guard on is current.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica, when one is configured.
	// Read views such as overdue lists and member loan histories use it.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key under which the preferred level is stored.
const ConsistencyLevelKey contextKey = "circulation.consistency_level"

// WithStrongConsistency marks ctx so that store reads go to the primary.
//
//	ctx = circulation.WithStrongConsistency(ctx)
//	member, err := store.LoadMember(ctx, ownerID, memberID)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx so that store reads may be served by a replica.
//
//	ctx = circulation.WithEventualConsistency(ctx)
//	loans, err := store.LoadOverdueLoans(ctx, ownerID, now)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if none was set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String returns the lower-case name used in logs and span attributes.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
