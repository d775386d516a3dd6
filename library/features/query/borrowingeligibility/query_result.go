package borrowingeligibility

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Eligibility is the query result.
type Eligibility struct {
	MemberID       uuid.UUID
	MemberActive   bool
	Eligible       bool
	BorrowingLimit core.BorrowingCheck
	UnpaidLateFees core.BorrowingCheck
	Reasons        []string
}
