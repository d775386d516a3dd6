package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/checkoutbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/renewloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/settlelatefee"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatesettings"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// ErrMissingJWTSecret is returned by New without a signing secret.
var ErrMissingJWTSecret = errors.New("a JWT secret is required")

// Handlers are the command and query handlers the routes delegate to.
//
// CurrentLoanDetail must read from the primary (loandetail.WithStrongConsistency):
// the return route gates the fee disposition on it and the renew route answers with it.
type Handlers struct {
	CheckoutBooks  shell.CoreCommandHandler[checkoutbooks.Command]
	ReturnBook     shell.CoreCommandHandler[returnbook.Command]
	RenewLoan      shell.CoreCommandHandler[renewloan.Command]
	SettleLateFee  shell.CoreCommandHandler[settlelatefee.Command]
	AddBook        shell.CoreCommandHandler[addbook.Command]
	RegisterMember shell.CoreCommandHandler[registermember.Command]
	UpdateSettings shell.CoreCommandHandler[updatesettings.Command]

	LoanDetail           shell.CoreQueryHandler[loandetail.Query, loandetail.LoanDetail]
	CurrentLoanDetail    shell.CoreQueryHandler[loandetail.Query, loandetail.LoanDetail]
	MemberLoans          shell.CoreQueryHandler[memberloans.Query, memberloans.MemberLoans]
	OverdueLoans         shell.CoreQueryHandler[overdueloans.Query, overdueloans.OverdueLoans]
	BorrowingEligibility shell.CoreQueryHandler[borrowingeligibility.Query, borrowingeligibility.Eligibility]

	Settings shell.ProvidesSettings
}

// Server is the echo application serving the circulation API.
type Server struct {
	echo        *echo.Echo
	handlers    Handlers
	jwtSecret   []byte
	logger      shell.Logger
	gatherer    prometheus.Gatherer
	healthCheck func(ctx context.Context) error
	timeout     time.Duration
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every request and every internal error.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsGatherer serves gatherer on GET /metrics.
func WithMetricsGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithHealthCheck makes GET /health answer 503 while check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}

// WithRequestTimeout cancels the request context of /v1 routes after timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// WithClock replaces time.Now as the source of command and query timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New builds the server and registers all routes.
func New(handlers Handlers, jwtSecret string, opts ...Option) (*Server, error) {
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	s := &Server{
		echo:      echo.New(),
		handlers:  handlers,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.JSONSerializer = jsonSerializer{}
	s.echo.Validator = newRequestValidator()
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(s.requestLog())

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.health)

	if s.gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/v1", s.authenticate)
	if s.timeout > 0 {
		v1.Use(middleware.ContextTimeout(s.timeout))
	}

	v1.POST("/checkouts", s.checkoutBooks)
	v1.GET("/loans/overdue", s.overdueLoans)
	v1.GET("/loans/:id", s.loanDetail)
	v1.POST("/loans/:id/return", s.returnBook)
	v1.POST("/loans/:id/renew", s.renewLoan)
	v1.POST("/loans/:id/fee", s.settleLateFee)
	v1.GET("/members/:id/loans", s.memberLoans)
	v1.GET("/members/:id/eligibility", s.borrowingEligibility)
	v1.POST("/members", s.registerMember)
	v1.POST("/books", s.addBook)
	v1.GET("/settings", s.getSettings)
	v1.PUT("/settings", s.updateSettings)
}

// ServeHTTP lets the server be mounted or tested as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called. It returns http.ErrServerClosed after a shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting connections and waits for running requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	if s.healthCheck != nil {
		if err := s.healthCheck(c.Request().Context()); err != nil {
			s.logError(c, "health check failed", err)
			return c.JSON(http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
		}
	}

	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
