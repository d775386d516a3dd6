package core

import (
	"errors"
	"fmt"
)

// ErrCode is the stable, machine-readable identifier of a business rule violation.
type ErrCode string

const (
	CodeInvalidCommand          ErrCode = "INVALID_COMMAND"
	CodeInvalidSettings         ErrCode = "INVALID_SETTINGS"
	CodeMemberNotFound          ErrCode = "MEMBER_NOT_FOUND"
	CodeMemberNotActive         ErrCode = "MEMBER_NOT_ACTIVE"
	CodeBookNotFound            ErrCode = "BOOK_NOT_FOUND"
	CodeOutOfStock              ErrCode = "OUT_OF_STOCK"
	CodeAlreadyBorrowed         ErrCode = "ALREADY_BORROWED"
	CodeBorrowingLimitReached   ErrCode = "BORROWING_LIMIT_REACHED"
	CodeUnpaidLateFees          ErrCode = "UNPAID_LATE_FEES"
	CodeOverrideReasonRequired  ErrCode = "OVERRIDE_REASON_REQUIRED"
	CodeLoanNotFound            ErrCode = "LOAN_NOT_FOUND"
	CodeLoanAlreadyReturned     ErrCode = "LOAN_ALREADY_RETURNED"
	CodeLoanNotReturned         ErrCode = "LOAN_NOT_RETURNED"
	CodeBookMismatch            ErrCode = "BOOK_MISMATCH"
	CodeMaxRenewalsReached      ErrCode = "MAX_RENEWALS_REACHED"
	CodeFeePaymentRequired      ErrCode = "FEE_PAYMENT_REQUIRED"
	CodeNoOutstandingFee        ErrCode = "NO_OUTSTANDING_FEE"
	CodeFeeAlreadySettled       ErrCode = "FEE_ALREADY_SETTLED"
	CodeInvalidFeeDisposition   ErrCode = "INVALID_FEE_DISPOSITION"
	CodeInvalidReturnCondition  ErrCode = "INVALID_RETURN_CONDITION"
	CodeInvalidExtension        ErrCode = "INVALID_EXTENSION"
	CodeInvalidAssignmentType   ErrCode = "INVALID_ASSIGNMENT_TYPE"
	CodeDuplicateBookInCheckout ErrCode = "DUPLICATE_BOOK_IN_CHECKOUT"
)

// BusinessError is a rule violation detected before any write.
// Two business errors match with errors.Is when their codes are equal,
// so a reason with details still matches the bare sentinel.
type BusinessError struct {
	code   ErrCode
	reason string
}

func (e *BusinessError) Error() string {
	return e.reason
}

// Code returns the error code.
func (e *BusinessError) Code() ErrCode {
	return e.code
}

// Is matches other business errors by code.
func (e *BusinessError) Is(target error) bool {
	var other *BusinessError
	if errors.As(target, &other) {
		return other.code == e.code
	}

	return false
}

func newBusinessError(code ErrCode, reason string) *BusinessError {
	return &BusinessError{code: code, reason: reason}
}

var (
	ErrInvalidCommand          = newBusinessError(CodeInvalidCommand, "invalid command")
	ErrInvalidSettings         = newBusinessError(CodeInvalidSettings, "invalid library settings")
	ErrMemberNotFound          = newBusinessError(CodeMemberNotFound, "member not found")
	ErrMemberNotActive         = newBusinessError(CodeMemberNotActive, "member is not active")
	ErrBookNotFound            = newBusinessError(CodeBookNotFound, "book not found")
	ErrOutOfStock              = newBusinessError(CodeOutOfStock, "book is out of stock")
	ErrAlreadyBorrowed         = newBusinessError(CodeAlreadyBorrowed, "book is already borrowed by this member")
	ErrBorrowingLimitReached   = newBusinessError(CodeBorrowingLimitReached, "borrowing limit reached")
	ErrUnpaidLateFees          = newBusinessError(CodeUnpaidLateFees, "member has unpaid late fees")
	ErrOverrideReasonRequired  = newBusinessError(CodeOverrideReasonRequired, "an override requires an actor and a reason")
	ErrLoanNotFound            = newBusinessError(CodeLoanNotFound, "loan not found")
	ErrLoanAlreadyReturned     = newBusinessError(CodeLoanAlreadyReturned, "loan is already returned")
	ErrLoanNotReturned         = newBusinessError(CodeLoanNotReturned, "loan is not returned yet")
	ErrBookMismatch            = newBusinessError(CodeBookMismatch, "book does not belong to this loan")
	ErrMaxRenewalsReached      = newBusinessError(CodeMaxRenewalsReached, "maximum renewals reached")
	ErrFeePaymentRequired      = newBusinessError(CodeFeePaymentRequired, "fee payment required")
	ErrNoOutstandingFee        = newBusinessError(CodeNoOutstandingFee, "loan has no outstanding late fee")
	ErrFeeAlreadySettled       = newBusinessError(CodeFeeAlreadySettled, "late fee is already settled")
	ErrInvalidFeeDisposition   = newBusinessError(CodeInvalidFeeDisposition, "invalid fee disposition")
	ErrInvalidReturnCondition  = newBusinessError(CodeInvalidReturnCondition, "invalid return condition")
	ErrInvalidExtension        = newBusinessError(CodeInvalidExtension, "extension days must be positive")
	ErrInvalidAssignmentType   = newBusinessError(CodeInvalidAssignmentType, "invalid assignment type")
	ErrDuplicateBookInCheckout = newBusinessError(CodeDuplicateBookInCheckout, "a book appears more than once in the checkout")
)

// Code extracts the ErrCode of err, or "" if err is not a business error.
func Code(err error) ErrCode {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.code
	}

	return ""
}

// IsBusinessError reports whether err is a rule violation rather than an infrastructure failure.
func IsBusinessError(err error) bool {
	return Code(err) != ""
}

// MaximumRenewalsReached returns ErrMaxRenewalsReached with the configured maximum in the message.
func MaximumRenewalsReached(maxRenewals int) error {
	return newBusinessError(CodeMaxRenewalsReached, fmt.Sprintf("Maximum renewals reached (%d)", maxRenewals))
}

// AlreadyBorrowed returns ErrAlreadyBorrowed naming the book.
func AlreadyBorrowed(title string) error {
	return newBusinessError(CodeAlreadyBorrowed, fmt.Sprintf("%q is already borrowed by this member", title))
}

// OutOfStock returns ErrOutOfStock naming the book.
func OutOfStock(title string) error {
	return newBusinessError(CodeOutOfStock, fmt.Sprintf("%q is out of stock", title))
}

// BorrowingLimitReached returns ErrBorrowingLimitReached with the check's reason.
func BorrowingLimitReached(check BorrowingCheck) error {
	return newBusinessError(CodeBorrowingLimitReached, check.Reason)
}

// UnpaidLateFees returns ErrUnpaidLateFees with the check's reason.
func UnpaidLateFees(check BorrowingCheck) error {
	return newBusinessError(CodeUnpaidLateFees, check.Reason)
}

// FeePaymentRequired returns ErrFeePaymentRequired stating the amount.
func FeePaymentRequired(fee Money) error {
	return newBusinessError(CodeFeePaymentRequired, fmt.Sprintf("a late fee of %s must be paid or waived", fee.StringFixed(2)))
}

// InvalidCommand returns ErrInvalidCommand with a detail.
func InvalidCommand(detail string) error {
	return newBusinessError(CodeInvalidCommand, "invalid command: "+detail)
}

func invalidSettings(detail string) error {
	return newBusinessError(CodeInvalidSettings, "invalid library settings: "+detail)
}
