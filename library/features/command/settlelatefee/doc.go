// Package settlelatefee settles the outstanding late fee of a returned loan.
//
// A paid fee is recorded as a LateFee transaction linked to the loan; a waived fee only marks
// the loan. Settling again with the same disposition changes nothing.
package settlelatefee
