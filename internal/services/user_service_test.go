package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/testutil"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	u := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")

	_, err := env.users.UpdateDetails(ctx, u.ID, models.UpdateDetailsRequest{})
	assertCode(t, err, 400)
	_, err = env.users.UpdateDetails(ctx, u.ID, models.UpdateDetailsRequest{Branch: "Astrology"})
	assertCode(t, err, 400)

	updated, err := env.users.UpdateDetails(ctx, u.ID, models.UpdateDetailsRequest{Name: " Asha K "})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, u.Batch, updated.Batch)

	_, err = env.users.UpdateAvatar(ctx, u.ID, "a42")
	assertCode(t, err, 400)
	updated, err = env.users.UpdateAvatar(ctx, u.ID, "a7")
	require.NoError(t, err)
	assert.Equal(t, "a7", updated.Avatar)

	_, err = env.users.UpdateSocialLinks(ctx, u.ID, models.UpdateSocialLinksRequest{LinkedIn: "linkedin"})
	assertCode(t, err, 400)
	updated, err = env.users.UpdateSocialLinks(ctx, u.ID, models.UpdateSocialLinksRequest{
		LinkedIn:  "https://linkedin.com/in/asha",
		Instagram: "asha.k",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/in/asha", updated.SocialLinks.LinkedIn)

	_, err = env.users.RemoveSocialLinks(ctx, u.ID, models.RemoveSocialLinksRequest{})
	assertCode(t, err, 400)
	updated, err = env.users.RemoveSocialLinks(ctx, u.ID, models.RemoveSocialLinksRequest{Instagram: true})
	require.NoError(t, err)
	assert.Empty(t, updated.SocialLinks.Instagram)
	assert.NotEmpty(t, updated.SocialLinks.LinkedIn)

	_, err = env.users.GetProfile(ctx, "zzz")
	assertCode(t, err, 400)
	_, err = env.users.GetProfile(ctx, primitive.NewObjectID().Hex())
	assertCode(t, err, 404)
}

func TestSavedPostsAndMyPosts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")
	b := testutil.SeedUser(t, env.store, "b@nitc.ac.in", "secret123")
	first := testutil.SeedInterview(t, env.store, a, "Acme")
	second := testutil.SeedInterview(t, env.store, a, "Globex")
	testutil.SeedInterview(t, env.store, b, "Initech")

	saved, list, err := env.users.ToggleSavedPost(ctx, b.ID, first.ID.Hex())
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []primitive.ObjectID{first.ID}, list)

	_, _, err = env.users.ToggleSavedPost(ctx, b.ID, second.ID.Hex())
	require.NoError(t, err)

	views, err := env.users.SavedPosts(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Globex", views[0].Company)

	saved, list, err = env.users.ToggleSavedPost(ctx, b.ID, first.ID.Hex())
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, []primitive.ObjectID{second.ID}, list)

	_, _, err = env.users.ToggleSavedPost(ctx, b.ID, primitive.NewObjectID().Hex())
	assertCode(t, err, 404)

	mine, err := env.users.MyPosts(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	empty, err := env.users.SavedPosts(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
