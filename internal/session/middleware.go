package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/models"
)

const contextKey = "session"

// FromEchoContext returns the session attached by the middleware, or nil.
func FromEchoContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	return nil
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuthCookies writes the token pair for a live session.
func SetAuthCookies(c echo.Context, sess *Session) {
	c.SetCookie(CreateCookie("accessToken", sess.AccessToken, "/", time.Now().Add(accessTTL)))
	c.SetCookie(CreateCookie("refreshToken", sess.RefreshToken, "/", time.Now().Add(refreshTTL)))
}

// ExpireAuthCookies clears both token cookies.
func ExpireAuthCookies(c echo.Context) {
	expired := time.Now().Add(-time.Hour)
	c.SetCookie(CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(CreateCookie("refreshToken", "", "/", expired))
}

// AutoRefresh authenticates from the access cookie, transparently rotating
// an expired access token against the refresh cookie, and attaches the
// resolved Session to the request.
func (s *Service) AutoRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		refresh := ""
		if asCookie, err := c.Cookie("accessToken"); err == nil {
			token, err := jwt.Parse(asCookie.Value, func(t *jwt.Token) (interface{}, error) {
				return s.JWTSecret, nil
			})
			if err == nil && token.Valid {
				if rfCookie, cerr := c.Cookie("refreshToken"); cerr == nil {
					refresh = rfCookie.Value
				}
				return s.attach(c, next, token.Claims.(jwt.MapClaims), asCookie.Value, refresh)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, err := s.RotateToken(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(accessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(refreshTTL)))

		token, err := jwt.Parse(newAccess, func(t *jwt.Token) (interface{}, error) {
			return s.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return s.attach(c, next, token.Claims.(jwt.MapClaims), newAccess, newRefresh)
	}
}

// AutoRefreshAdmin is AutoRefresh plus an admin role gate.
func (s *Service) AutoRefreshAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return s.AutoRefresh(func(c echo.Context) error {
		if !FromEchoContext(c).IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}

func (s *Service) attach(c echo.Context, next echo.HandlerFunc, claims jwt.MapClaims, access, refresh string) error {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	role, _ := claims["role"].(string)

	var user models.User
	if err := s.DB.First(&user, uint(sub)).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}

	c.Set(contextKey, &Session{
		UserID:       user.ID,
		ProfileID:    user.ProfileID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         role,
		AccessToken:  access,
		RefreshToken: refresh,
	})
	return next(c)
}
