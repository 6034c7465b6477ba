package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-service/internal/models"
)

type callerKey struct{}

// Claims carries the caller identity. Subject is the user id; ClientID
// is the optional tenant scope.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id,omitempty"`
}

// JWTAuth resolves the caller from a bearer token and stores it in the
// request context. Tenancy is never read from process-global state;
// downstream code takes the caller as an explicit parameter.
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			caller := models.Caller{
				UserID:   claims.Subject,
				ClientID: claims.ClientID,
			}

			ctx := context.WithValue(c.Request().Context(), callerKey{}, caller)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", caller.UserID)

			return next(c)
		}
	}
}

// CallerFromContext returns the caller resolved by JWTAuth.
func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(models.Caller)
	return caller, ok
}
