package memberloans

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "MemberLoans"
)

// Query represents the intent to list the loans of a member as of a point in time.
type Query struct {
	OwnerID  uuid.UUID
	MemberID uuid.UUID
	AsOf     time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(ownerID, memberID uuid.UUID, asOf time.Time) Query {
	return Query{
		OwnerID:  ownerID,
		MemberID: memberID,
		AsOf:     asOf.UTC(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
