package loandetail

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "LoanDetail"
)

// Query represents the intent to look at one loan as of a point in time.
type Query struct {
	OwnerID uuid.UUID
	LoanID  uuid.UUID
	AsOf    time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(ownerID, loanID uuid.UUID, asOf time.Time) Query {
	return Query{
		OwnerID: ownerID,
		LoanID:  loanID,
		AsOf:    asOf.UTC(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
