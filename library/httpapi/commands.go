package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/checkoutbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/renewloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/settlelatefee"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatesettings"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
)

func overrideOf(p Principal, req *overrideRequest) core.Override {
	if req == nil {
		return core.NoOverride
	}

	return core.Override{Enabled: true, Actor: p.Actor, Reason: req.Reason}
}

// POST /v1/checkouts
func (s *Server) checkoutBooks(c echo.Context) error {
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	ctx := c.Request().Context()

	assignment := checkoutbooks.AssignmentType(req.AssignmentType)
	if assignment == "" {
		assignment = checkoutbooks.AssignmentBorrow
	}

	command := checkoutbooks.BuildCommand(
		p.OwnerID, p.Role, p.Actor,
		parseID(req.MemberID), parseIDs(req.BookIDs),
		assignment, req.DurationDays, overrideOf(p, req.Override), s.now(),
	)

	result, err := s.handlers.CheckoutBooks.Handle(ctx, command)
	if err != nil {
		return err
	}

	resp := checkoutResponse{
		TransactionID: command.TransactionID,
		RetryAttempts: result.RetryAttempts,
	}

	if assignment == checkoutbooks.AssignmentBorrow {
		resp.LoanIDs = command.LoanIDs

		// The loans are committed at this point; a settings failure only drops the due date.
		if settings, err := s.handlers.Settings.SettingsFor(ctx, p.OwnerID); err == nil {
			due := checkoutbooks.DueDate(settings, command)
			resp.DueDate = &due
		} else {
			s.logError(c, "resolving settings for the due date failed", err)
		}
	}

	return c.JSON(http.StatusCreated, resp)
}

// POST /v1/loans/:id/return
func (s *Server) returnBook(c echo.Context) error {
	var req returnRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	ctx := c.Request().Context()
	loanID := parseID(req.LoanID)
	now := s.now()

	disposition := core.FeeDisposition(req.FeeDisposition)
	if disposition == "" {
		disposition = core.FeeDispositionNone
	}

	detail, err := s.handlers.CurrentLoanDetail.Handle(ctx, loandetail.BuildQuery(p.OwnerID, loanID, now))
	if err != nil {
		return err
	}

	if detail.Loan.IsActive() && !req.DeferFee {
		if err := core.CheckFeeDisposition(detail.AccruedFee, disposition); err != nil {
			return err
		}
	}

	command := returnbook.BuildCommand(
		p.OwnerID, p.Actor, loanID, parseID(req.BookID),
		core.ReturnCondition(req.Condition), req.ConditionNotes, disposition, now,
	)

	if _, err := s.handlers.ReturnBook.Handle(ctx, command); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, returnResponse{
		LoanID:         loanID,
		TransactionID:  command.TransactionID,
		LateFee:        money(detail.AccruedFee),
		FeeDisposition: string(disposition),
	})
}

// POST /v1/loans/:id/renew
func (s *Server) renewLoan(c echo.Context) error {
	var req renewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	ctx := c.Request().Context()
	loanID := parseID(req.LoanID)
	now := s.now()

	command := renewloan.BuildCommand(p.OwnerID, p.Actor, loanID, req.ExtensionDays, overrideOf(p, req.Override), now)
	if _, err := s.handlers.RenewLoan.Handle(ctx, command); err != nil {
		return err
	}

	detail, err := s.handlers.CurrentLoanDetail.Handle(ctx, loandetail.BuildQuery(p.OwnerID, loanID, now))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanDetailResponse(detail))
}

// POST /v1/loans/:id/fee
func (s *Server) settleLateFee(c echo.Context) error {
	var req settleFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	command := settlelatefee.BuildCommand(p.OwnerID, p.Actor, parseID(req.LoanID), core.FeeDisposition(req.Disposition), s.now())

	result, err := s.handlers.SettleLateFee.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	resp := settleFeeResponse{
		LoanID:      command.LoanID,
		Disposition: req.Disposition,
		Idempotent:  result.Idempotent,
	}

	if command.Disposition == core.FeeDispositionPaid && !result.Idempotent {
		resp.TransactionID = &command.TransactionID
	}

	return c.JSON(http.StatusOK, resp)
}

// POST /v1/books
func (s *Server) addBook(c echo.Context) error {
	var req addBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	command := addbook.BuildCommand(
		p.OwnerID, parseID(req.BookID), req.Title, req.Author, req.ISBN, req.Category, req.Stock, req.Price, s.now(),
	)

	result, err := s.handlers.AddBook.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(createdStatus(result.Idempotent), createdResponse{ID: command.BookID, Idempotent: result.Idempotent})
}

// POST /v1/members
func (s *Server) registerMember(c echo.Context) error {
	var req registerMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	command := registermember.BuildCommand(p.OwnerID, parseID(req.MemberID), req.Name, req.Email, s.now())

	result, err := s.handlers.RegisterMember.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(createdStatus(result.Idempotent), createdResponse{ID: command.MemberID, Idempotent: result.Idempotent})
}

// PUT /v1/settings
func (s *Server) updateSettings(c echo.Context) error {
	var req settingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := principalOf(c)
	ctx := c.Request().Context()

	command := updatesettings.BuildCommand(p.OwnerID, p.Actor, core.LibrarySettings{
		DailyLateFeeRate:   req.DailyLateFeeRate,
		GracePeriodDays:    req.GracePeriodDays,
		MaxLateFeeCap:      req.MaxLateFeeCap,
		MaxRenewalsPerLoan: req.MaxRenewalsPerLoan,
		BorrowingLimit:     req.BorrowingLimit,
		UnpaidFeeLoanLimit: req.UnpaidFeeLoanLimit,
		DefaultLoanDays:    req.DefaultLoanDays,
	}, s.now())

	if _, err := s.handlers.UpdateSettings.Handle(ctx, command); err != nil {
		return err
	}

	return s.getSettings(c)
}

func createdStatus(idempotent bool) int {
	if idempotent {
		return http.StatusOK
	}

	return http.StatusCreated
}
