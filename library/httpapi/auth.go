package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	principalKey = "principal"
	bearerPrefix = "bearer "
)

var errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")

// Principal is the authenticated caller: the tenant, its role and the acting staff member.
type Principal struct {
	OwnerID uuid.UUID
	Role    core.Role
	Actor   string
}

type claims struct {
	OwnerID string `json:"owner_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for p that expires after ttl.
func IssueToken(secret string, p Principal, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		OwnerID: p.OwnerID.String(),
		Role:    string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Actor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString([]byte(secret))
}

func (s *Server) parseToken(header string) (Principal, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return Principal{}, errors.New("missing bearer token")
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(header[len(bearerPrefix):]),
		parsed,
		func(*jwt.Token) (any, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Principal{}, err
	}

	ownerID, err := uuid.Parse(parsed.OwnerID)
	if err != nil {
		return Principal{}, err
	}

	role := core.Role(parsed.Role)
	if !role.IsValid() {
		return Principal{}, errors.New("unknown role")
	}

	if parsed.Subject == "" {
		return Principal{}, errors.New("missing subject")
	}

	return Principal{OwnerID: ownerID, Role: role, Actor: parsed.Subject}, nil
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := s.parseToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("request rejected", "error", err.Error(), "path", c.Path())
			}

			return errUnauthenticated
		}

		c.Set(principalKey, p)

		return next(c)
	}
}

func principalOf(c echo.Context) Principal {
	p, _ := c.Get(principalKey).(Principal)

	return p
}
