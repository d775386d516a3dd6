package borrowingeligibility

import (
	"github.com/google/uuid"
)

const (
	queryType = "BorrowingEligibility"
)

// Query represents the intent to check whether a member may borrow Requested more books.
type Query struct {
	OwnerID   uuid.UUID
	MemberID  uuid.UUID
	Requested int
}

// BuildQuery creates a new Query. Requested below 1 is treated as 1.
func BuildQuery(ownerID, memberID uuid.UUID, requested int) Query {
	if requested < 1 {
		requested = 1
	}

	return Query{
		OwnerID:   ownerID,
		MemberID:  memberID,
		Requested: requested,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
