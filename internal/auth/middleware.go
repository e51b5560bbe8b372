package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey        = "user_id"
	accessTokenQuery = "access_token"
)

// RequireUser пропускает запрос только с валидным access-токеном в Authorization.
func RequireUser(issuer *Issuer) echo.MiddlewareFunc {
	return requireUser(issuer, false)
}

// RequireUserOrQuery дополнительно принимает токен из ?access_token=, для EventSource.
func RequireUserOrQuery(issuer *Issuer) echo.MiddlewareFunc {
	return requireUser(issuer, true)
}

func requireUser(issuer *Issuer, allowQuery bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok && allowQuery {
				raw = strings.TrimSpace(c.QueryParam(accessTokenQuery))
				ok = raw != ""
			}
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := issuer.Verify(raw, KindAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserIDFromContext извлекает идентификатор пользователя из контекста.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(userIDKey).(uuid.UUID)
	return userID, ok
}
