package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/testutil"
)

func interviewRequest(company string) models.CreateInterviewRequest {
	return models.CreateInterviewRequest{
		Company: company,
		Role:    "SDE Intern",
		Type:    "Internship",
		Domain:  "Tech",
		Rounds:  []models.Round{{Title: "OA", Description: "3 questions in 90 minutes"}},
		Tips:    "Revise DP",
	}
}

func TestCreateInterviewTakesBranchFromAuthor(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	author := testutil.SeedUser(t, env.store, "asha@nitc.ac.in", "secret123")

	req := interviewRequest("  <b>Acme</b> &amp; Co ")
	interview, err := env.interviews.Create(ctx, author, req)
	require.NoError(t, err)
	assert.Equal(t, author.Branch, interview.Branch)
	assert.Equal(t, "Acme & Co", interview.Company)
	assert.Equal(t, author.ID, interview.Author)

	bad := interviewRequest("Acme")
	bad.Domain = "Astrology"
	_, err = env.interviews.Create(ctx, author, bad)
	assertCode(t, err, 400)

	bad = interviewRequest("Acme")
	bad.Type = "Part Time"
	_, err = env.interviews.Create(ctx, author, bad)
	assertCode(t, err, 400)

	bad = interviewRequest("<script></script>")
	_, err = env.interviews.Create(ctx, author, bad)
	assertCode(t, err, 400)
}

func TestListInterviewsFiltersAndPages(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	author := testutil.SeedUser(t, env.store, "asha@nitc.ac.in", "secret123")
	for _, company := range []string{"Acme", "Globex", "Acme Labs"} {
		testutil.SeedInterview(t, env.store, author, company)
	}

	page, err := env.interviews.List(ctx, models.InterviewQuery{Company: "acme", Domain: models.FilterAll}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Interviews, 2)
	assert.Equal(t, "Acme Labs", page.Interviews[0].Company, "newest first")

	page, err = env.interviews.List(ctx, models.InterviewQuery{Pagination: models.Pagination{Page: 2, Limit: 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Interviews, 1)
	assert.Equal(t, "Acme", page.Interviews[0].Company)

	page, err = env.interviews.List(ctx, models.InterviewQuery{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(DefaultPageSize), page.Limit)
}

func TestInterviewViewEngagement(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")
	b := testutil.SeedUser(t, env.store, "b@nitc.ac.in", "secret123")
	interview := testutil.SeedInterview(t, env.store, a, "Acme")
	ref := models.InterviewRef(interview.ID)

	liked, err := env.likes.Toggle(ctx, a.ID, ref)
	require.NoError(t, err)
	require.True(t, liked)
	_, err = env.comments.Add(ctx, ref, b.ID, "congrats")
	require.NoError(t, err)

	anon, err := env.interviews.Get(ctx, interview.ID.Hex(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), anon.LikesCount)
	assert.Equal(t, int64(1), anon.CommentCount)
	assert.False(t, anon.IsLiked)
	assert.Equal(t, a.Name, anon.Author.Name)

	asB, err := env.interviews.Get(ctx, interview.ID.Hex(), &b.ID)
	require.NoError(t, err)
	assert.False(t, asB.IsLiked)

	asA, err := env.interviews.Get(ctx, interview.ID.Hex(), &a.ID)
	require.NoError(t, err)
	assert.True(t, asA.IsLiked)

	_, err = env.interviews.Get(ctx, "bad", nil)
	assertCode(t, err, 400)
}

func TestUpdateInterviewOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")
	b := testutil.SeedUser(t, env.store, "b@nitc.ac.in", "secret123")
	interview := testutil.SeedInterview(t, env.store, a, "Acme")

	company := "Initech"
	_, err := env.interviews.Update(ctx, interview.ID.Hex(), b.ID, models.InterviewUpdate{Company: &company})
	assertCode(t, err, 403)

	view, err := env.interviews.Update(ctx, interview.ID.Hex(), a.ID, models.InterviewUpdate{Company: &company})
	require.NoError(t, err)
	assert.Equal(t, "Initech", view.Company)
	assert.Equal(t, "SDE Intern", view.Role, "unsent fields are kept")

	empty := "   "
	_, err = env.interviews.Update(ctx, interview.ID.Hex(), a.ID, models.InterviewUpdate{Tips: &empty})
	assertCode(t, err, 400)

	domain := "Astrology"
	_, err = env.interviews.Update(ctx, interview.ID.Hex(), a.ID, models.InterviewUpdate{Domain: &domain})
	assertCode(t, err, 400)
}

func TestDeleteInterviewCascades(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")
	b := testutil.SeedUser(t, env.store, "b@nitc.ac.in", "secret123")
	interview := testutil.SeedInterview(t, env.store, a, "Acme")
	other := testutil.SeedInterview(t, env.store, a, "Globex")
	ref := models.InterviewRef(interview.ID)

	_, err := env.comments.Add(ctx, ref, b.ID, "nice")
	require.NoError(t, err)
	_, err = env.comments.Add(ctx, models.InterviewRef(other.ID), b.ID, "also nice")
	require.NoError(t, err)
	_, err = env.likes.Toggle(ctx, b.ID, ref)
	require.NoError(t, err)
	_, _, err = env.users.ToggleSavedPost(ctx, b.ID, interview.ID.Hex())
	require.NoError(t, err)
	_, _, err = env.users.ToggleSavedPost(ctx, b.ID, other.ID.Hex())
	require.NoError(t, err)

	assertCode(t, env.interviews.Delete(ctx, interview.ID.Hex(), b.ID), 403)
	require.NoError(t, env.interviews.Delete(ctx, interview.ID.Hex(), a.ID))

	_, err = env.interviews.Get(ctx, interview.ID.Hex(), nil)
	assertCode(t, err, 404)
	assert.Equal(t, 0, env.store.CommentCount(ref))
	assert.Equal(t, 1, env.store.CommentCount(models.InterviewRef(other.ID)))
	likes, err := env.store.CountLikes(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, likes)

	user, err := env.store.GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, user.SavedPosts[0])
	assert.Len(t, user.SavedPosts, 1)

	assertCode(t, env.interviews.Delete(ctx, interview.ID.Hex(), a.ID), 404)
}

func TestDeleteInterviewStopsOnChildFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := testutil.SeedUser(t, env.store, "a@nitc.ac.in", "secret123")
	interview := testutil.SeedInterview(t, env.store, a, "Acme")
	env.store.Fail["DeleteLikesByTarget"] = errors.New("primary stepped down")

	assertCode(t, env.interviews.Delete(ctx, interview.ID.Hex(), a.ID), 500)

	_, err := env.interviews.Get(ctx, interview.ID.Hex(), nil)
	assert.NoError(t, err, "the post survives when its children could not be removed")
}
