package registermember

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	MemberExists bool
}

// Decide implements the business logic to register a member.
//
// Business Rules:
//
//	GIVEN: A member ID that is not registered
//	WHEN: RegisterMember is received
//	THEN: an Active member is inserted
//	IDEMPOTENCY: a member with this ID already exists
//	ERROR: "invalid command" for an empty name
func Decide(s State, command Command) core.DecisionResult {
	name := strings.TrimSpace(command.Name)
	if name == "" {
		return core.ErrorDecision(core.InvalidCommand("name is required"))
	}

	if s.MemberExists {
		return core.IdempotentDecision()
	}

	cs := core.NewChangeset(command.OwnerID)
	cs.MemberInserts = []core.Member{{
		ID:        command.MemberID,
		OwnerID:   command.OwnerID,
		Name:      name,
		Email:     strings.TrimSpace(command.Email),
		Status:    core.MemberStatusActive,
		Version:   1,
		CreatedAt: command.OccurredAt,
	}}

	return core.SuccessDecision(cs)
}
