// Package returnbook implements the return of a borrowed copy.
//
// The late fee is computed from the loan's due date, the return time and the owner's fee policy.
// Copies in Poor or Damaged condition are flagged for review and a Damaged copy sends the book
// to repair. Staff decide what happens with a fee: paid, waived, or left outstanding (none).
// Requiring a decision for nonzero fees is left to the caller, see core.CheckFeeDisposition.
//
// The loan update, the stock increment, the Return transaction (linked to the loan) and the
// member version bump are committed as one changeset.
package returnbook
