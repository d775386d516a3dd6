// Package memberloans lists every loan of a member with its derived due state.
//
// Days until due, the overdue flag and the accrued fee are computed at query time from the
// stored due date and the owner's fee policy; none of them is stored.
package memberloans
