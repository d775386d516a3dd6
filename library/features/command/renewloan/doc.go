// Package renewloan implements the renewal of an active loan.
//
// A renewal pushes the due date out by the requested number of days and counts towards the
// owner's renewal limit. Staff can override the limit with a reason; every override is audited
// in the same changeset as the renewal.
package renewloan
