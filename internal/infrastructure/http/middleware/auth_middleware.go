package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/common"
	"github.com/johnquangdev/earnings-transcripts/pkg/jwt"
)

const (
	// ClaimsContextKey holds the validated *jwt.Claims in the Echo context
	ClaimsContextKey = "claims"
	// ServiceContextKey holds the calling service name in the Echo context
	ServiceContextKey = "service"
)

// EchoAuth returns an Echo middleware that validates a service bearer token
// and, when scope is not empty, requires the token to grant it
func EchoAuth(manager *jwt.Manager, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return respondError(c, errors.ErrUnauthenticated())
			}

			claims, err := manager.ValidateServiceToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrExpiredToken) {
					return respondError(c, errors.ErrTokenExpired())
				}
				return respondError(c, errors.ErrInvalidToken())
			}

			if scope != "" && !claims.HasScope(scope) {
				return respondError(c, errors.ErrPermissionDenied(scope))
			}

			c.Set(ClaimsContextKey, claims)
			c.Set(ServiceContextKey, claims.Service)

			return next(c)
		}
	}
}

// ExtractBearerToken returns the token of a "Bearer <token>" header value
func ExtractBearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func respondError(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    int(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
