package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/pkg/jwt"
)

const (
	// ContextKeyUserID is the echo context key carrying the caller id.
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the echo context key carrying the caller email.
	ContextKeyEmail = "email"
)

func reject(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code.String(),
	})
}

// Auth validates the bearer token and stores the caller identity in the
// request context.
func Auth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return reject(c, errors.ErrUnauthenticated())
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return reject(c, errors.ErrInvalidToken())
			}

			claims, err := manager.ValidateAccessToken(parts[1])
			if err != nil {
				return reject(c, errors.ErrInvalidToken())
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)
			return next(c)
		}
	}
}
