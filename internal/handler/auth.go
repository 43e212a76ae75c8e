package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/middleware"
	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = middleware.SessionCookieName

// AuthHandler serves sign-up, sign-in, logout and the current-user lookup.
type AuthHandler struct {
	Auth         *service.AuthService
	SecureCookie bool
	Timeout      time.Duration
}

func NewAuthHandler(auth *service.AuthService, secureCookie bool, timeout time.Duration) *AuthHandler {
	return &AuthHandler{Auth: auth, SecureCookie: secureCookie, Timeout: timeout}
}

type signUpReq struct {
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	FullName string  `json:"fullName" validate:"required"`
	Phone    *string `json:"phone"`
}

type signInReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUp: POST /auth/signup
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	res, err := h.Auth.SignUp(ctx, req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	h.setSessionCookie(c, res.Session)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": res.User})
}

// SignIn: POST /auth/signin
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	res, err := h.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.setSessionCookie(c, res.Session)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": res.User})
}

// Logout: POST /auth/logout.  Always succeeds and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
		ctx, cancel := requestCtx(c, h.Timeout)
		defer cancel()
		if err := h.Auth.Logout(ctx, ck.Value); err != nil {
			return respondError(c, err)
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me: GET /auth/me.  Anonymous callers get {"user": null}.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": currentUser(c)})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, s *model.Session) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
