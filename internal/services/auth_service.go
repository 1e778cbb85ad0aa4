package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/anonto42/campus-diary/backend/pkg/mailer"
	"github.com/anonto42/campus-diary/backend/pkg/sanitize"
	"github.com/anonto42/campus-diary/backend/validators"
)

const forgotPasswordAction = "forgot_password"

// RateLimiter starts a cooldown for (action, subject) and reports whether
// the caller was allowed through.
type RateLimiter interface {
	Allow(ctx context.Context, action, subject string, window time.Duration) (bool, error)
}

// AuthService owns registration, verification, login and password
// recovery.
type AuthService struct {
	users     repositories.UserRepository
	tokens    *TokenService
	mailer    mailer.Mailer
	limiter   RateLimiter
	cfg       config.AuthConfig
	clientURL string
	cooldown  time.Duration
	logger    zerolog.Logger
	clock     clock
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *TokenService,
	mail mailer.Mailer,
	limiter RateLimiter,
	cfg *config.Config,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mail,
		limiter:   limiter,
		cfg:       cfg.Auth,
		clientURL: strings.TrimRight(cfg.ClientURL, "/"),
		cooldown:  cfg.RateLimit.ForgotPasswordCooldown,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken is the one-way form of a reset token kept in the store.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Register creates an unverified user and mails the verification link.
// The user is removed again when the mail cannot be sent.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		return nil, apperror.BadRequest("email is required")
	}

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("User with this email already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeErr(err, "")
	}

	req.Name = sanitize.Text(req.Name)
	req.Batch = sanitize.Text(req.Batch)
	if err := validators.Struct(req); err != nil {
		return nil, err
	}
	if !models.IsInstitutionEmail(req.Email, s.cfg.AllowedEmailDomain) {
		return nil, apperror.BadRequest("Only @" + s.cfg.AllowedEmailDomain + " email addresses are allowed")
	}
	if !models.IsValidBranch(req.Branch) {
		return nil, apperror.BadRequest("Invalid branch")
	}
	if !models.IsValidAvatar(req.AvatarID) {
		return nil, apperror.BadRequest("Invalid avatar selection")
	}

	token, err := randomToken(20)
	if err != nil {
		return nil, apperror.Internal("Something went wrong", err)
	}
	expires := s.clock.now().Add(s.cfg.VerificationTTL)

	user := &models.User{
		Email:                    req.Email,
		Name:                     req.Name,
		Branch:                   req.Branch,
		Batch:                    req.Batch,
		Avatar:                   req.AvatarID,
		Role:                     models.RoleUser,
		VerificationToken:        token,
		VerificationTokenExpires: &expires,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, hashErr(err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal("User not created", err)
	}

	if err := s.sendVerification(ctx, user.Email, token); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("verification email failed, removing user")
		if delErr := s.users.DeleteUser(ctx, user.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("user_id", user.ID.Hex()).Msg("failed to remove unverifiable user")
		}
		return nil, apperror.Internal("Failed to send verification email. Please try again.", err)
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, to, token string) error {
	html, err := mailer.VerificationEmail(s.clientURL + "/verify-email/" + token)
	if err == nil {
		err = s.mailer.Send(ctx, to, mailer.VerificationSubject, html)
	}
	metrics.EmailsSent.WithLabelValues("verification", metrics.Status(err)).Inc()
	return err
}

// VerifyEmail marks the holder of token verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetUserByVerificationToken(ctx, token, s.clock.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.BadRequest("Invalid or expired verification token")
		}
		return storeErr(err, "")
	}
	return storeErr(s.users.MarkVerified(ctx, user.ID), "User not found")
}

// Login checks credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *models.TokenPair, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, nil, apperror.BadRequest("All fields are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, storeErr(err, "User does not exist")
	}
	if !user.CheckPassword(req.Password) {
		return nil, nil, apperror.Unauthorized("Please enter correct password")
	}
	if !user.IsVerified {
		return nil, nil, apperror.Forbidden("Please verify your email before logging in")
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout forgets the persisted refresh token.
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return storeErr(s.users.SetRefreshToken(ctx, userID, ""), "User not found")
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, req models.ChangePasswordRequest) error {
	if err := validators.Struct(req); err != nil {
		return err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return storeErr(err, "User not found")
	}
	if !user.CheckPassword(req.OldPassword) {
		return apperror.Unauthorized("Invalid old password")
	}
	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return hashErr(err)
	}
	return storeErr(s.users.UpdatePassword(ctx, userID, hash), "User not found")
}

// ForgotPassword stores the hash of a new reset token and mails the raw
// token. Requests for one address are limited to one per cooldown.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperror.BadRequest("Email is required")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, forgotPasswordAction, email, s.cooldown)
		if err != nil {
			s.logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !allowed {
			return apperror.TooManyRequests("Please wait before requesting another password reset")
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return storeErr(err, "User with this email does not exist")
	}

	token, err := randomToken(32)
	if err != nil {
		return apperror.Internal("Something went wrong", err)
	}
	expires := s.clock.now().Add(s.cfg.ResetPasswordTTL)
	if err := s.users.SetPasswordReset(ctx, user.ID, hashToken(token), expires); err != nil {
		return storeErr(err, "User not found")
	}

	html, err := mailer.PasswordResetEmail(user.Name, s.clientURL+"/reset-password/"+token, int(s.cfg.ResetPasswordTTL/time.Minute))
	if err == nil {
		err = s.mailer.Send(ctx, user.Email, mailer.PasswordResetSubject, html)
	}
	metrics.EmailsSent.WithLabelValues("password_reset", metrics.Status(err)).Inc()
	if err != nil {
		if clearErr := s.users.ClearPasswordReset(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("user_id", user.ID.Hex()).Msg("failed to roll back password reset")
		}
		return apperror.Internal("Email could not be sent", err)
	}
	return nil
}

// ResetPassword replaces the password of the holder of token. The token
// is cleared so it works once.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) error {
	if err := validators.Struct(req); err != nil {
		return err
	}
	user, err := s.users.GetUserByResetToken(ctx, hashToken(token), s.clock.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.BadRequest("Token is invalid or has expired")
		}
		return storeErr(err, "")
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return hashErr(err)
	}
	return storeErr(s.users.UpdatePassword(ctx, user.ID, hash), "User not found")
}
