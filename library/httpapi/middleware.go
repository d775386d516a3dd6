package httpapi

import (
	"time"

	"github.com/labstack/echo/v4"
)

// requestLog logs one line per request once the response is written.
func (s *Server) requestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			if s.logger != nil {
				s.logger.Info("http request",
					"method", c.Request().Method,
					"path", c.Path(),
					"status", c.Response().Status,
					"duration_ms", float64(time.Since(start).Microseconds())/1000,
					"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
					"owner_id", principalOf(c).OwnerID.String(),
				)
			}

			return nil
		}
	}
}
