package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
)

// AccessTokenCookie and RefreshTokenCookie name the cookies set at login.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const userContextKey = "user"

// TokenVerifier checks an access token.
type TokenVerifier interface {
	VerifyAccess(token string) (*models.AccessClaims, error)
}

// UserLoader loads the account a token was issued for.
type UserLoader interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth resolves the caller from the access token cookie or the bearer
// header.
type Auth struct {
	tokens TokenVerifier
	users  UserLoader
}

func NewAuth(tokens TokenVerifier, users UserLoader) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// accessToken prefers the cookie over the Authorization header.
func accessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (a *Auth) resolve(c echo.Context) (*models.User, error) {
	token := accessToken(c)
	if token == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}
	claims, err := a.tokens.VerifyAccess(token)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Access Token")
	}
	user, err := a.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Access Token")
	}
	return user, nil
}

// RequireAuth rejects requests without a valid access token.
func (a *Auth) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := a.resolve(c)
			if err != nil {
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when it can and lets anonymous
// requests through otherwise.
func (a *Auth) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := a.resolve(c); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperror.Unauthorized("Unauthorized request")
			}
			if !user.IsAdmin() {
				return apperror.Forbidden("Access denied. Admin only.")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated caller, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// ViewerID is the caller's id for engagement flags, nil when anonymous.
func ViewerID(c echo.Context) *primitive.ObjectID {
	if user := CurrentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}
