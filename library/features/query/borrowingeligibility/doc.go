// Package borrowingeligibility answers whether a member may borrow more books right now.
//
// It runs the same two checks a checkout runs: the active loan count against the borrowing
// limit and the number of returned loans with an unpaid fee against the unpaid fee limit.
// The answer is advisory; a checkout decides again on the current state.
package borrowingeligibility
