package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// SessionCookieName is the cookie that carries the form-login session token.
const SessionCookieName = "SESSION"

type AuthHandler struct {
	authService    ports.AuthService
	sessionService ports.SessionService
	secureCookies  bool
}

func NewAuthHandler(authService ports.AuthService, sessionService ports.SessionService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService, secureCookies: secureCookies}
}

type loginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type sessionResponse struct {
	Username  string        `json:"username"`
	Roles     []domain.Role `json:"roles"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login starts a form-login session and sets the SESSION cookie.
//
// @Summary      Form login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  sessionResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	session, err := h.sessionService.Create(ctx, user)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, sessionResponse{
		Username:  session.Username,
		Roles:     session.Roles,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout revokes the current session, if any, and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		if err := h.sessionService.Revoke(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Token exchanges credentials for a bearer token.
//
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginForm  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	token, expiresAt, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}
