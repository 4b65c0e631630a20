package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const viewerKey = "orderflow.viewer"

var signingMethod = jwt.SigningMethodHS256

// Claims are the bearer token fields this service reads. Tokens are issued
// elsewhere; sub is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Sign issues a token for userID. Production tokens come from the identity
// service; this is used by tests and local tooling.
func (a *Authenticator) Sign(userID kernel.UUID, role queries.Role, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns the viewer it identifies.
func (a *Authenticator) Parse(token string) (queries.Viewer, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return queries.Viewer{}, err
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return queries.Viewer{}, fmt.Errorf("subject: %w", err)
	}
	role, err := queries.ParseRole(claims.Role)
	if err != nil {
		return queries.Viewer{}, err
	}
	return queries.Viewer{ID: id, Role: role}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// viewer on the echo context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			token, found := strings.CutPrefix(raw, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			viewer, err := a.Parse(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.Set(viewerKey, viewer)
			return next(c)
		}
	}
}

// RequireRole must run after Middleware.
func RequireRole(roles ...queries.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			viewer, ok := viewerFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}
			if !slices.Contains(roles, viewer.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "role required")
			}
			return next(c)
		}
	}
}

func viewerFrom(c echo.Context) (queries.Viewer, bool) {
	viewer, ok := c.Get(viewerKey).(queries.Viewer)
	return viewer, ok
}
