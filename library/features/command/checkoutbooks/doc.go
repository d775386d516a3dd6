// Package checkoutbooks implements the checkout of one or more books to a member,
// either as a loan (borrow) or as a sale (purchase).
//
// All rules are decided against one consistent load of the member, the books and the member's
// open loans, before anything is written:
//
//   - the member exists and is active
//   - every book exists and has a copy on the shelf
//   - a borrowed book is not already out with the same member
//   - a borrow stays within the borrowing limit and the unpaid late fee limit, unless staff override
//
// The resulting loans, the transaction, the stock decrements and the member version bump are
// committed as one changeset. A concurrent checkout of the same copy or by the same member makes
// the commit conflict, and the handler retries from a fresh load.
package checkoutbooks
