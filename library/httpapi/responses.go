package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
)

type statusResponse struct {
	Status string `json:"status"`
}

type checkoutResponse struct {
	TransactionID uuid.UUID   `json:"transaction_id"`
	LoanIDs       []uuid.UUID `json:"loan_ids,omitempty"`
	DueDate       *time.Time  `json:"due_date,omitempty"`
	RetryAttempts int         `json:"retry_attempts"`
}

type returnResponse struct {
	LoanID         uuid.UUID `json:"loan_id"`
	TransactionID  uuid.UUID `json:"transaction_id"`
	LateFee        string    `json:"late_fee"`
	FeeDisposition string    `json:"fee_disposition"`
}

type settleFeeResponse struct {
	LoanID        uuid.UUID  `json:"loan_id"`
	Disposition   string     `json:"disposition"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	Idempotent    bool       `json:"idempotent"`
}

type createdResponse struct {
	ID         uuid.UUID `json:"id"`
	Idempotent bool      `json:"idempotent"`
}

type transactionResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	TotalAmount   string    `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type loanDetailResponse struct {
	LoanID           uuid.UUID             `json:"loan_id"`
	BookID           uuid.UUID             `json:"book_id"`
	MemberID         uuid.UUID             `json:"member_id"`
	Status           string                `json:"status"`
	CheckoutDate     time.Time             `json:"checkout_date"`
	DueDate          time.Time             `json:"due_date"`
	ReturnDate       *time.Time            `json:"return_date,omitempty"`
	RenewalCount     int                   `json:"renewal_count"`
	DaysUntilDue     int                   `json:"days_until_due"`
	IsOverdue        bool                  `json:"is_overdue"`
	AccruedFee       string                `json:"accrued_fee"`
	FeePaid          bool                  `json:"fee_paid"`
	FeeWaived        bool                  `json:"fee_waived"`
	FeeOutstanding   bool                  `json:"fee_outstanding"`
	ReturnCondition  string                `json:"return_condition,omitempty"`
	ConditionNotes   string                `json:"condition_notes,omitempty"`
	FlaggedForReview bool                  `json:"flagged_for_review"`
	Transactions     []transactionResponse `json:"transactions"`
}

type memberLoanResponse struct {
	LoanID         uuid.UUID  `json:"loan_id"`
	BookID         uuid.UUID  `json:"book_id"`
	Status         string     `json:"status"`
	CheckoutDate   time.Time  `json:"checkout_date"`
	DueDate        time.Time  `json:"due_date"`
	ReturnDate     *time.Time `json:"return_date,omitempty"`
	RenewalCount   int        `json:"renewal_count"`
	DaysUntilDue   int        `json:"days_until_due"`
	IsOverdue      bool       `json:"is_overdue"`
	AccruedFee     string     `json:"accrued_fee"`
	FeeOutstanding bool       `json:"fee_outstanding"`
}

type memberLoansResponse struct {
	MemberID     uuid.UUID            `json:"member_id"`
	Loans        []memberLoanResponse `json:"loans"`
	ActiveCount  int                  `json:"active_count"`
	OverdueCount int                  `json:"overdue_count"`
	Count        int                  `json:"count"`
}

type overdueLoanResponse struct {
	LoanID      uuid.UUID `json:"loan_id"`
	MemberID    uuid.UUID `json:"member_id"`
	BookID      uuid.UUID `json:"book_id"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
	AccruedFee  string    `json:"accrued_fee"`
}

type overdueLoansResponse struct {
	Loans           []overdueLoanResponse `json:"loans"`
	Count           int                   `json:"count"`
	TotalAccruedFee string                `json:"total_accrued_fee"`
}

type borrowingCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Current int    `json:"current"`
	Limit   int    `json:"limit"`
	Reason  string `json:"reason,omitempty"`
}

type eligibilityResponse struct {
	MemberID       uuid.UUID              `json:"member_id"`
	Eligible       bool                   `json:"eligible"`
	MemberActive   bool                   `json:"member_active"`
	BorrowingLimit borrowingCheckResponse `json:"borrowing_limit"`
	UnpaidLateFees borrowingCheckResponse `json:"unpaid_late_fees"`
	Reasons        []string               `json:"reasons"`
}

type settingsResponse struct {
	DailyLateFeeRate   string     `json:"daily_late_fee_rate"`
	GracePeriodDays    int        `json:"grace_period_days"`
	MaxLateFeeCap      string     `json:"max_late_fee_cap"`
	MaxRenewalsPerLoan int        `json:"max_renewals_per_loan"`
	BorrowingLimit     int        `json:"borrowing_limit"`
	UnpaidFeeLoanLimit int        `json:"unpaid_fee_loan_limit"`
	DefaultLoanDays    int        `json:"default_loan_days"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

func money(m core.Money) string {
	return m.StringFixed(2)
}

func toLoanDetailResponse(d loandetail.LoanDetail) loanDetailResponse {
	resp := loanDetailResponse{
		LoanID:           d.Loan.ID,
		BookID:           d.Loan.BookID,
		MemberID:         d.Loan.MemberID,
		Status:           string(d.Loan.Status),
		CheckoutDate:     d.Loan.CheckoutDate,
		DueDate:          d.Loan.DueDate,
		ReturnDate:       d.Loan.ReturnDate,
		RenewalCount:     d.Loan.RenewalCount,
		DaysUntilDue:     d.DaysUntilDue,
		IsOverdue:        d.IsOverdue,
		AccruedFee:       money(d.AccruedFee),
		FeePaid:          d.Loan.FeePaid,
		FeeWaived:        d.Loan.FeeWaived,
		FeeOutstanding:   d.FeeOutstanding,
		ReturnCondition:  string(d.Loan.ReturnCondition),
		ConditionNotes:   d.Loan.ConditionNotes,
		FlaggedForReview: d.Loan.FlaggedForReview,
		Transactions:     make([]transactionResponse, 0, len(d.Transactions)),
	}

	for _, tx := range d.Transactions {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			TransactionID: tx.TransactionID,
			PaymentMethod: string(tx.PaymentMethod),
			Status:        string(tx.Status),
			TotalAmount:   money(tx.TotalAmount),
			CreatedAt:     tx.CreatedAt,
		})
	}

	return resp
}

func toMemberLoansResponse(r memberloans.MemberLoans) memberLoansResponse {
	resp := memberLoansResponse{
		MemberID:     r.MemberID,
		Loans:        make([]memberLoanResponse, 0, len(r.Loans)),
		ActiveCount:  r.ActiveCount,
		OverdueCount: r.OverdueCount,
		Count:        r.Count,
	}

	for _, l := range r.Loans {
		resp.Loans = append(resp.Loans, memberLoanResponse{
			LoanID:         l.LoanID,
			BookID:         l.BookID,
			Status:         string(l.Status),
			CheckoutDate:   l.CheckoutDate,
			DueDate:        l.DueDate,
			ReturnDate:     l.ReturnDate,
			RenewalCount:   l.RenewalCount,
			DaysUntilDue:   l.DaysUntilDue,
			IsOverdue:      l.IsOverdue,
			AccruedFee:     money(l.AccruedFee),
			FeeOutstanding: l.FeeOutstanding,
		})
	}

	return resp
}

func toOverdueLoansResponse(r overdueloans.OverdueLoans) overdueLoansResponse {
	resp := overdueLoansResponse{
		Loans:           make([]overdueLoanResponse, 0, len(r.Loans)),
		Count:           r.Count,
		TotalAccruedFee: money(r.TotalAccruedFee),
	}

	for _, l := range r.Loans {
		resp.Loans = append(resp.Loans, overdueLoanResponse{
			LoanID:      l.LoanID,
			MemberID:    l.MemberID,
			BookID:      l.BookID,
			DueDate:     l.DueDate,
			DaysOverdue: l.DaysOverdue,
			AccruedFee:  money(l.AccruedFee),
		})
	}

	return resp
}

func toBorrowingCheckResponse(check core.BorrowingCheck) borrowingCheckResponse {
	return borrowingCheckResponse{
		Allowed: check.Allowed,
		Current: check.Current,
		Limit:   check.Limit,
		Reason:  check.Reason,
	}
}

func toEligibilityResponse(e borrowingeligibility.Eligibility) eligibilityResponse {
	return eligibilityResponse{
		MemberID:       e.MemberID,
		Eligible:       e.Eligible,
		MemberActive:   e.MemberActive,
		BorrowingLimit: toBorrowingCheckResponse(e.BorrowingLimit),
		UnpaidLateFees: toBorrowingCheckResponse(e.UnpaidLateFees),
		Reasons:        e.Reasons,
	}
}

func toSettingsResponse(s core.LibrarySettings) settingsResponse {
	resp := settingsResponse{
		DailyLateFeeRate:   money(s.DailyLateFeeRate),
		GracePeriodDays:    s.GracePeriodDays,
		MaxLateFeeCap:      money(s.MaxLateFeeCap),
		MaxRenewalsPerLoan: s.MaxRenewalsPerLoan,
		BorrowingLimit:     s.BorrowingLimit,
		UnpaidFeeLoanLimit: s.UnpaidFeeLoanLimit,
		DefaultLoanDays:    s.DefaultLoanDays,
	}

	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
