package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/config"
)

// TokenService issues, verifies and rotates access/refresh token pairs.
// Each user has a single live refresh token: issuing a pair overwrites it.
type TokenService struct {
	users repositories.UserRepository
	cfg   config.AuthConfig
	clock clock
}

func NewTokenService(users repositories.UserRepository, cfg config.AuthConfig) *TokenService {
	return &TokenService{users: users, cfg: cfg}
}

// Issue signs a new pair for userID and persists the refresh token.
func (s *TokenService) Issue(ctx context.Context, userID primitive.ObjectID) (*models.TokenPair, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return s.issueFor(ctx, user)
}

func (s *TokenService) issueFor(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := s.clock.now()
	id := user.ID.Hex()

	access := models.AccessClaims{
		UserID:           id,
		Email:            user.Email,
		Name:             user.Name,
		RegisteredClaims: registered(id, now, s.cfg.AccessTokenExpiry),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}

	refresh := models.RefreshClaims{
		UserID:           id,
		RegisteredClaims: registered(id, now, s.cfg.RefreshTokenExpiry),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(s.cfg.RefreshTokenSecret))
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// registered carries a random jti so that two tokens minted in the same
// second still differ.
func registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Refresh validates the presented refresh token against the persisted one
// and rotates the pair.
func (s *TokenService) Refresh(ctx context.Context, token string) (*models.TokenPair, *models.User, error) {
	if token == "" {
		return nil, nil, apperror.Unauthorized("Unauthorized request")
	}

	claims := &models.RefreshClaims{}
	if err := s.parse(token, s.cfg.RefreshTokenSecret, claims); err != nil {
		return nil, nil, apperror.Unauthorized("Invalid refresh token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, nil, apperror.Unauthorized("Invalid refresh token")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, storeErr(err, "Invalid refresh token")
	}
	if user.RefreshToken == "" || user.RefreshToken != token {
		return nil, nil, apperror.Unauthorized("Refresh token is expired or used")
	}

	pair, err := s.issueFor(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// VerifyAccess checks signature and expiry of an access token.
func (s *TokenService) VerifyAccess(token string) (*models.AccessClaims, error) {
	if token == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}
	claims := &models.AccessClaims{}
	if err := s.parse(token, s.cfg.AccessTokenSecret, claims); err != nil {
		return nil, apperror.Unauthorized("Invalid access token")
	}
	return claims, nil
}

func (s *TokenService) parse(token, secret string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("token is not valid")
	}
	return nil
}
