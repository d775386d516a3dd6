package core

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus is the account status of a member.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "Active"
	MemberStatusInactive  MemberStatus = "Inactive"
	MemberStatusSuspended MemberStatus = "Suspended"
	MemberStatusBanned    MemberStatus = "Banned"
)

// Member is a person who borrows or buys books from an owner.
// Every checkout and return bumps Version, which serializes the borrowing
// limit check of concurrent checkouts for the same member.
type Member struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Email     string
	Status    MemberStatus
	Version   int64
	CreatedAt time.Time
	DeletedAt *time.Time
}

// IsActive reports whether the member may check out books.
func (m Member) IsActive() bool {
	return m.Status == MemberStatusActive && m.DeletedAt == nil
}
