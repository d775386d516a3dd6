package core

import (
	"time"

	"github.com/google/uuid"
)

// OverrideAudit records who bypassed a limit check, when, and why.
type OverrideAudit struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Actor       string
	Reason      string
	CommandType string
	MemberID    uuid.UUID
	SubjectID   uuid.UUID
	OccurredAt  time.Time
}

// Override carries the staff override request of a command.
type Override struct {
	Enabled bool
	Actor   string
	Reason  string
}

// NoOverride is the zero override.
var NoOverride = Override{}

// Validate checks that an enabled override names its actor and reason.
func (o Override) Validate() error {
	if !o.Enabled {
		return nil
	}

	if o.Actor == "" || o.Reason == "" {
		return ErrOverrideReasonRequired
	}

	return nil
}

// AuditFor builds the audit record of an enabled override.
func (o Override) AuditFor(ownerID uuid.UUID, commandType string, memberID, subjectID uuid.UUID, at time.Time) OverrideAudit {
	return OverrideAudit{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Actor:       o.Actor,
		Reason:      o.Reason,
		CommandType: commandType,
		MemberID:    memberID,
		SubjectID:   subjectID,
		OccurredAt:  at,
	}
}
