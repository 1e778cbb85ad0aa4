package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/testutil"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/config"
)

type testEnv struct {
	store *testutil.Store
	mail  *testutil.Mailer
	media *testutil.MediaHost

	tokens     *TokenService
	auth       *AuthService
	users      *UserService
	interviews *InterviewService
	tweets     *TweetService
	comments   *CommentService
	likes      *LikeService
	developers *DeveloperService
}

func testConfig() *config.Config {
	return &config.Config{
		ClientURL: "http://localhost:5173",
		Auth: config.AuthConfig{
			AccessTokenSecret:  "access-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenSecret: "refresh-secret",
			RefreshTokenExpiry: 24 * time.Hour,
			VerificationTTL:    24 * time.Hour,
			ResetPasswordTTL:   10 * time.Minute,
			AllowedEmailDomain: "nitc.ac.in",
		},
		RateLimit: config.RateLimitConfig{ForgotPasswordCooldown: time.Minute},
	}
}

func newTestEnv(t *testing.T, limiter RateLimiter) *testEnv {
	t.Helper()
	cfg := testConfig()
	store := testutil.NewStore()
	logger := zerolog.Nop()
	tx := repositories.NewMongoTransactor(nil, false)

	env := &testEnv{
		store: store,
		mail:  &testutil.Mailer{},
		media: &testutil.MediaHost{URL: "https://res.cloudinary.com/demo/photo.png"},
	}
	env.tokens = NewTokenService(store, cfg.Auth)
	env.auth = NewAuthService(store, env.tokens, env.mail, limiter, cfg, logger)
	env.users = NewUserService(store, store)
	env.interviews = NewInterviewService(store, store, store, store, tx, logger)
	env.tweets = NewTweetService(store, store, store, store, tx, logger)
	env.comments = NewCommentService(store, store, store)
	env.likes = NewLikeService(store, store, store)
	env.developers = NewDeveloperService(store, env.media, logger)
	return env
}

// assertCode checks that err is an AppError carrying the status code.
func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, int64(1), NewPagination(0, 0).Page)
	assert.Equal(t, int64(DefaultPageSize), NewPagination(1, 0).Limit)
	assert.Equal(t, int64(1), NewPagination(-3, -5).Limit)
	assert.Equal(t, int64(25), NewPagination(2, 25).Limit)
	assert.Equal(t, int64(MaxPageSize), NewPagination(1, 5000).Limit)
}

func TestPaginationSkipNeverOverflows(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int64
		want        int64
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 10, 20},
		{"max page", math.MaxInt64, 10, math.MaxInt64},
		{"max page and limit", math.MaxInt64, math.MaxInt64, math.MaxInt64},
		{"just below overflow", math.MaxInt64/10 + 1, 10, math.MaxInt64 / 10 * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Pagination{Page: tt.page, Limit: tt.limit}
			assert.Equal(t, tt.want, p.Skip())
		})
	}

	p := NewPagination(math.MaxInt64, 10)
	assert.GreaterOrEqual(t, p.Skip(), int64(0))
}

func TestListInterviewsPastLastPage(t *testing.T) {
	env := newTestEnv(t, nil)
	author := testutil.SeedUser(t, env.store, "asha@nitc.ac.in", "secret123")
	testutil.SeedInterview(t, env.store, author, "Acme")

	page, err := env.interviews.List(context.Background(), models.InterviewQuery{
		Pagination: models.Pagination{Page: math.MaxInt64, Limit: 10},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Interviews)
	assert.Equal(t, int64(1), page.Total)
}

func TestParseID(t *testing.T) {
	_, err := ParseID("nope", "interview")
	assertCode(t, err, 400)

	_, err = ParseID(" 64b7f0c2a1b2c3d4e5f60718 ", "interview")
	assert.NoError(t, err)
}

func TestStoreErr(t *testing.T) {
	assert.NoError(t, storeErr(nil, "x"))
	assertCode(t, storeErr(repositories.ErrNotFound, "Tweet not found"), 404)
	assertCode(t, storeErr(errors.New("socket closed"), ""), 500)
	assertCode(t, storeErr(apperror.Forbidden("no"), ""), 403)
}
