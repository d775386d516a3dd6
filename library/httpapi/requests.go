package httpapi

import (
	"github.com/shopspring/decimal"
)

type overrideRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type checkoutRequest struct {
	MemberID       string           `json:"member_id" validate:"required,uuid"`
	BookIDs        []string         `json:"book_ids" validate:"required,min=1,dive,required,uuid"`
	AssignmentType string           `json:"assignment_type" validate:"omitempty,oneof=borrow purchase"`
	DurationDays   int              `json:"duration_days" validate:"gte=0"`
	Override       *overrideRequest `json:"override"`
}

type returnRequest struct {
	LoanID         string `param:"id" validate:"required,uuid"`
	BookID         string `json:"book_id" validate:"omitempty,uuid"`
	Condition      string `json:"condition" validate:"required"`
	ConditionNotes string `json:"condition_notes" validate:"max=2000"`
	FeeDisposition string `json:"fee_disposition" validate:"omitempty,oneof=none paid waived"`
	// DeferFee returns the copy with the fee left outstanding for a later settlement.
	DeferFee bool `json:"defer_fee"`
}

type renewRequest struct {
	LoanID        string           `param:"id" validate:"required,uuid"`
	ExtensionDays int              `json:"extension_days"`
	Override      *overrideRequest `json:"override"`
}

type settleFeeRequest struct {
	LoanID      string `param:"id" validate:"required,uuid"`
	Disposition string `json:"disposition" validate:"required,oneof=paid waived"`
}

type loanRequest struct {
	LoanID string `param:"id" validate:"required,uuid"`
}

type memberRequest struct {
	MemberID  string `param:"id" validate:"required,uuid"`
	Requested int    `query:"requested" validate:"gte=0"`
}

type addBookRequest struct {
	BookID   string          `json:"book_id" validate:"omitempty,uuid"`
	Title    string          `json:"title" validate:"required,max=500"`
	Author   string          `json:"author" validate:"max=500"`
	ISBN     string          `json:"isbn" validate:"max=32"`
	Category string          `json:"category" validate:"max=100"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
}

type registerMemberRequest struct {
	MemberID string `json:"member_id" validate:"omitempty,uuid"`
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type settingsRequest struct {
	DailyLateFeeRate   decimal.Decimal `json:"daily_late_fee_rate"`
	GracePeriodDays    int             `json:"grace_period_days"`
	MaxLateFeeCap      decimal.Decimal `json:"max_late_fee_cap"`
	MaxRenewalsPerLoan int             `json:"max_renewals_per_loan"`
	BorrowingLimit     int             `json:"borrowing_limit"`
	UnpaidFeeLoanLimit int             `json:"unpaid_fee_loan_limit"`
	DefaultLoanDays    int             `json:"default_loan_days"`
}
