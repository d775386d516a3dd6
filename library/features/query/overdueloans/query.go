package overdueloans

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list overdue loans as of a point in time.
type Query struct {
	OwnerID uuid.UUID
	AsOf    time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(ownerID uuid.UUID, asOf time.Time) Query {
	return Query{
		OwnerID: ownerID,
		AsOf:    asOf.UTC(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
