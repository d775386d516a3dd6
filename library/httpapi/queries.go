package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
)

// GET /v1/loans/:id
func (s *Server) loanDetail(c echo.Context) error {
	var req loanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	query := loandetail.BuildQuery(principalOf(c).OwnerID, parseID(req.LoanID), s.now())

	detail, err := s.handlers.LoanDetail.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoanDetailResponse(detail))
}

// GET /v1/loans/overdue
func (s *Server) overdueLoans(c echo.Context) error {
	result, err := s.handlers.OverdueLoans.Handle(c.Request().Context(), overdueloans.BuildQuery(principalOf(c).OwnerID, s.now()))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOverdueLoansResponse(result))
}

// GET /v1/members/:id/loans
func (s *Server) memberLoans(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	query := memberloans.BuildQuery(principalOf(c).OwnerID, parseID(req.MemberID), s.now())

	result, err := s.handlers.MemberLoans.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toMemberLoansResponse(result))
}

// GET /v1/members/:id/eligibility?requested=n
func (s *Server) borrowingEligibility(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	query := borrowingeligibility.BuildQuery(principalOf(c).OwnerID, parseID(req.MemberID), req.Requested)

	result, err := s.handlers.BorrowingEligibility.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toEligibilityResponse(result))
}

// GET /v1/settings
func (s *Server) getSettings(c echo.Context) error {
	settings, err := s.handlers.Settings.SettingsFor(c.Request().Context(), principalOf(c).OwnerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}
