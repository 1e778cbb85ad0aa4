package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-diary/backend/internal/middleware"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/services"
	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/anonto42/campus-diary/backend/pkg/response"
)

// AuthHandler serves registration, sessions and password recovery.
type AuthHandler struct {
	auth          *services.AuthService
	tokens        *services.TokenService
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthHandler(auth *services.AuthService, tokens *services.TokenService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		tokens:        tokens,
		secureCookies: cfg.SecureCookies,
		accessTTL:     cfg.AccessTokenExpiry,
		refreshTTL:    cfg.RefreshTokenExpiry,
	}
}

// RegisterAuthRoutes mounts the public routes on g. Routes needing a
// session take the auth middleware separately.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh-tokens", h.RefreshTokens)
	g.GET("/verify/:token", h.VerifyEmail)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password/:token", h.ResetPassword)

	g.POST("/logout", h.Logout, requireAuth)
	g.POST("/change-password", h.ChangePassword, requireAuth)
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if h.secureCookies {
		cookie.SameSite = http.SameSiteNoneMode
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
	} else if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func (h *AuthHandler) setSession(c echo.Context, pair *models.TokenPair) {
	c.SetCookie(h.cookie(middleware.AccessTokenCookie, pair.AccessToken, h.accessTTL))
	c.SetCookie(h.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, h.refreshTTL))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, user, "Verification link sent successfully to your email.")
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.auth.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Email verified successfully!")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, pair, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	h.setSession(c, pair)
	return response.OK(c, user, "User logged In successfully")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}
	c.SetCookie(h.cookie(middleware.AccessTokenCookie, "", 0))
	c.SetCookie(h.cookie(middleware.RefreshTokenCookie, "", 0))
	return response.OK(c, struct{}{}, "User logged Out Successfully")
}

// RefreshTokens takes the refresh token from its cookie or from the body.
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req models.RefreshRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	pair, _, err := h.tokens.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}
	h.setSession(c, pair)
	return response.OK(c, pair, "Access token refreshed Successfully")
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req models.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.Request().Context(), user.ID, req); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Password changed successfully")
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Password reset email sent successfully")
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Password reset successfully. You can now login.")
}
