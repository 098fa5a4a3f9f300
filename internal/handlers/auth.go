package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/session"
)

type AuthHandler struct {
	Sessions *session.Service
	Producer *events.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	profile := docstore.Document{
		"fullName": req.FullName,
		"phone":    req.Phone,
		"provider": "password",
	}
	sess, err := h.Sessions.SignUp(c.Request().Context(), req.Email, req.Password, profile)
	if err != nil {
		if errors.Is(err, session.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	session.SetAuthCookies(c, sess)

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(sess.UserID), map[string]any{
		"type":   "user_registered",
		"userID": sess.UserID,
		"email":  sess.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user": echo.Map{
			"id":        sess.UserID,
			"email":     sess.Email,
			"full_name": sess.FullName,
			"role":      sess.Role,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.Sessions.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	session.SetAuthCookies(c, sess)

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(sess.UserID), map[string]any{
		"type":   "user_logged_in",
		"userID": sess.UserID,
		"email":  sess.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
		"is_admin":      sess.IsAdmin(),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token missing")
	}

	if err := h.Sessions.RevokeRefresh(refreshCookie.Value); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	session.ExpireAuthCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.Sessions.SendPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, session.ErrNoAccount) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AuthHandler) Me(c echo.Context) error {
	sess := session.FromEchoContext(c)

	profile, err := h.Sessions.Profile(c.Request().Context(), sess)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "profile not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	sess := session.FromEchoContext(c)

	var updates docstore.Document
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	delete(updates, "id")
	delete(updates, "uid")
	delete(updates, "email")

	if err := h.Sessions.UpdateProfile(c.Request().Context(), sess, updates); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
