package services

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/internal/testutil"
)

func str(s string) *string { return &s }

func TestDeveloperLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := testutil.SeedAdmin(t, env.store, "admin@nitc.ac.in")

	_, err := env.developers.Create(ctx, admin, models.DeveloperForm{}, "")
	assertCode(t, err, 400)

	dev, err := env.developers.Create(ctx, admin, models.DeveloperForm{GitHub: str("https://github.com/asha"), Role: str("  ")}, "/tmp/photo.png")
	require.NoError(t, err)
	assert.Equal(t, admin.Name, dev.Name)
	assert.Equal(t, models.DefaultDeveloperRole, dev.Role)
	assert.Equal(t, env.media.URL, dev.PhotoURL)
	assert.Equal(t, "https://github.com/asha", dev.SocialLinks.GitHub)
	assert.Equal(t, []string{"/tmp/photo.png"}, env.media.Uploaded)

	_, err = env.developers.Create(ctx, admin, models.DeveloperForm{}, "/tmp/photo.png")
	assertCode(t, err, 409)

	updated, err := env.developers.Update(ctx, "1", models.DeveloperForm{Role: str("Backend"), GitHub: str("")}, "")
	require.NoError(t, err)
	assert.Equal(t, "Backend", updated.Role)
	assert.Equal(t, "https://github.com/asha", updated.SocialLinks.GitHub, "blank keeps the stored link")

	list, err := env.developers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.developers.Get(ctx, "abc")
	assertCode(t, err, 400)
	_, err = env.developers.Get(ctx, "99")
	assertCode(t, err, 404)

	require.NoError(t, env.developers.Delete(ctx, "1"))
	assertCode(t, env.developers.Delete(ctx, "1"), 404)
}

func TestDeveloperUploadFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := testutil.SeedAdmin(t, env.store, "admin@nitc.ac.in")
	env.media.Err = errors.New("cloudinary 502")

	_, err := env.developers.Create(ctx, admin, models.DeveloperForm{}, "/tmp/photo.png")
	assertCode(t, err, 500)

	list, err := env.developers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	noHost := NewDeveloperService(env.store, nil, zerolog.Nop())
	_, err = noHost.Create(ctx, admin, models.DeveloperForm{}, "/tmp/photo.png")
	assertCode(t, err, 500)
}

func TestDeveloperInsertFailureLogsUploadedPhoto(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	admin := testutil.SeedAdmin(t, env.store, "admin@nitc.ac.in")

	var logs bytes.Buffer
	developers := NewDeveloperService(env.store, env.media, zerolog.New(&logs))

	// another request for the same owner wins between the check and the insert
	env.store.Fail["CreateDeveloper"] = repositories.ErrDuplicate
	_, err := developers.Create(ctx, admin, models.DeveloperForm{}, "/tmp/photo.png")
	assertCode(t, err, 409)
	assert.Len(t, env.media.Uploaded, 1)
	assert.Contains(t, logs.String(), env.media.URL)
	assert.Contains(t, logs.String(), "uploaded photo left without a developer entry")

	delete(env.store.Fail, "CreateDeveloper")
	dev, err := developers.Create(ctx, admin, models.DeveloperForm{}, "/tmp/photo.png")
	require.NoError(t, err)

	logs.Reset()
	env.store.Fail["UpdateDeveloper"] = errors.New("connection reset")
	_, err = developers.Update(ctx, strconv.FormatUint(uint64(dev.ID), 10), models.DeveloperForm{}, "/tmp/new.png")
	assertCode(t, err, 500)
	assert.Contains(t, logs.String(), env.media.URL)

	logs.Reset()
	_, err = developers.Update(ctx, strconv.FormatUint(uint64(dev.ID), 10), models.DeveloperForm{Name: str("Ada")}, "")
	assertCode(t, err, 500)
	assert.Empty(t, logs.String())
}

type sweeperFunc func(ctx context.Context) (repositories.SweepReport, error)

func (f sweeperFunc) SweepOrphans(ctx context.Context) (repositories.SweepReport, error) { return f(ctx) }

func TestAdminService(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	u := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")

	admin := NewAdminService(env.store, sweeperFunc(func(context.Context) (repositories.SweepReport, error) {
		return repositories.SweepReport{Comments: 2, Likes: 1}, nil
	}), zerolog.Nop())

	promoted, err := admin.SetRole(ctx, " A@nitc.ac.in", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, u.ID, promoted.ID)

	_, err = admin.SetRole(ctx, "a@nitc.ac.in", "owner")
	assertCode(t, err, 400)
	_, err = admin.SetRole(ctx, "ghost@nitc.ac.in", models.RoleAdmin)
	assertCode(t, err, 404)

	report, err := admin.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Comments)
}
