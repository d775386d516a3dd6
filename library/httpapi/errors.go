package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	codeBadRequest          = "BAD_REQUEST"
	codeUnauthenticated     = "UNAUTHENTICATED"
	codeRouteNotFound       = "NOT_FOUND"
	codeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	codeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	codeTimeout             = "TIMEOUT"
	codeInternal            = "INTERNAL"

	msgInternal = "internal error"
)

var notFoundCodes = map[core.ErrCode]bool{
	core.CodeMemberNotFound: true,
	core.CodeBookNotFound:   true,
	core.CodeLoanNotFound:   true,
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps err to a status code and a response body.
func statusFor(err error) (int, errorResponse) {
	if code := core.Code(err); code != "" {
		status := http.StatusUnprocessableEntity
		if notFoundCodes[code] {
			status = http.StatusNotFound
		}

		return status, errorResponse{Error: err.Error(), Code: string(code)}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, errorResponse{Error: httpMessage(httpErr), Code: httpCode(httpErr.Code)}
	}

	switch {
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return http.StatusConflict, errorResponse{Error: circulation.ErrConcurrencyConflict.Error(), Code: codeConcurrencyConflict}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Error: "request timed out", Code: codeTimeout}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgInternal, Code: codeInternal}
	}
}

func httpMessage(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}

	return http.StatusText(httpErr.Code)
}

func httpCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return codeUnauthenticated
	case http.StatusNotFound:
		return codeRouteNotFound
	case http.StatusMethodNotAllowed:
		return codeMethodNotAllowed
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusServiceUnavailable:
		return codeTimeout
	default:
		return codeInternal
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logError(c, "request failed", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}

	if err != nil {
		s.logError(c, "writing error response failed", err)
	}
}

func (s *Server) logError(c echo.Context, msg string, err error) {
	if s.logger == nil {
		return
	}

	s.logger.Error(msg,
		"error", err.Error(),
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)
}
