package testutil

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
)

// authorSummary is empty for deleted authors, as the feed join leaves it.
func (s *Store) authorSummary(id primitive.ObjectID) models.AuthorSummary {
	u, ok := s.users[id]
	if !ok {
		return models.AuthorSummary{}
	}
	return models.AuthorSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Branch:      u.Branch,
		Batch:       u.Batch,
		Avatar:      u.Avatar,
		Role:        u.Role,
		SocialLinks: u.SocialLinks,
	}
}

// engagement mirrors the counts and flag computed by the feed pipeline.
func (s *Store) engagement(ref models.PostRef, viewer *primitive.ObjectID) (models.Engagement, int64) {
	var e models.Engagement
	for _, l := range s.likes {
		if likeMatches(l, ref) {
			e.LikesCount++
			if viewer != nil && l.User == *viewer {
				e.IsLiked = true
			}
		}
	}
	var comments int64
	for _, c := range s.comments {
		if c.BelongsTo(ref) {
			comments++
		}
	}
	return e, comments
}

func likeMatches(l models.Like, ref models.PostRef) bool {
	switch ref.Kind {
	case models.KindInterview:
		return l.Interview != nil && *l.Interview == ref.ID
	case models.KindTweet:
		return l.Tweet != nil && *l.Tweet == ref.ID
	}
	return false
}

// ---- interviews ----

func (s *Store) CreateInterview(_ context.Context, interview *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateInterview"); err != nil {
		return err
	}
	now := s.tick()
	interview.ID = primitive.NewObjectID()
	interview.CreatedAt, interview.UpdatedAt = now, now
	if interview.Rounds == nil {
		interview.Rounds = []models.Round{}
	}
	s.interviews[interview.ID] = *interview
	return nil
}

func (s *Store) GetInterviewByID(_ context.Context, id primitive.ObjectID) (*models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.interviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &i, nil
}

func (s *Store) interviewView(i models.Interview, viewer *primitive.ObjectID) models.InterviewView {
	author := s.authorSummary(i.Author)
	e, comments := s.engagement(models.InterviewRef(i.ID), viewer)
	return models.InterviewView{
		ID:               i.ID,
		Author:           author,
		InterviewDetails: i.InterviewDetails,
		Engagement:       e,
		CommentCount:     comments,
		Timestamps:       i.Timestamps,
	}
}

func (s *Store) GetInterviewView(_ context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.InterviewView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.interviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := s.interviewView(i, viewer)
	return &v, nil
}

func interviewMatches(i models.Interview, q models.InterviewQuery) bool {
	exact := func(field, v string) bool {
		return v == "" || v == models.FilterAll || field == v
	}
	if !exact(i.Domain, q.Domain) || !exact(i.Type, q.Type) || !exact(i.Branch, q.Branch) {
		return false
	}
	if q.Company != "" && !containsFold(i.Company, q.Company) {
		return false
	}
	if q.Role != "" && !containsFold(i.Role, q.Role) {
		return false
	}
	if q.Author != nil && i.Author != *q.Author {
		return false
	}
	if q.IDs != nil {
		found := false
		for _, id := range q.IDs {
			if id == i.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Store) ListInterviews(_ context.Context, q models.InterviewQuery, viewer *primitive.ObjectID) ([]models.InterviewView, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListInterviews"); err != nil {
		return nil, 0, err
	}
	var matched []models.Interview
	for _, i := range s.interviews {
		if interviewMatches(i, q) {
			matched = append(matched, i)
		}
	}
	sort.Slice(matched, func(a, b int) bool {
		return newer(matched[a].CreatedAt, matched[b].CreatedAt, matched[a].ID, matched[b].ID)
	})

	views := []models.InterviewView{}
	for _, i := range window(matched, q.Pagination) {
		views = append(views, s.interviewView(i, viewer))
	}
	return views, int64(len(matched)), nil
}

func (s *Store) UpdateInterview(_ context.Context, id primitive.ObjectID, u models.InterviewUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.interviews[id]
	if !ok {
		return repositories.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&i.Company, u.Company)
	set(&i.Role, u.Role)
	set(&i.Type, u.Type)
	set(&i.Domain, u.Domain)
	set(&i.InterviewDate, u.InterviewDate)
	set(&i.HRRound, u.HRRound)
	set(&i.OfferDetails, u.OfferDetails)
	set(&i.Tips, u.Tips)
	if u.Rounds != nil {
		i.Rounds = append([]models.Round{}, (*u.Rounds)...)
	}
	i.UpdatedAt = s.tick()
	s.interviews[id] = i
	return nil
}

func (s *Store) DeleteInterview(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteInterview"); err != nil {
		return err
	}
	if _, ok := s.interviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.interviews, id)
	return nil
}

// ---- tweets ----

func (s *Store) CreateTweet(_ context.Context, tweet *models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt, tweet.UpdatedAt = now, now
	s.tweets[tweet.ID] = *tweet
	return nil
}

func (s *Store) GetTweetByID(_ context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (s *Store) tweetView(t models.Tweet, viewer *primitive.ObjectID) models.TweetView {
	author := s.authorSummary(t.Author)
	e, comments := s.engagement(models.TweetRef(t.ID), viewer)
	return models.TweetView{
		ID:            t.ID,
		Author:        author,
		Content:       t.Content,
		Engagement:    e,
		CommentsCount: comments,
		Timestamps:    t.Timestamps,
	}
}

func (s *Store) GetTweetView(_ context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.TweetView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := s.tweetView(t, viewer)
	return &v, nil
}

func (s *Store) ListTweets(_ context.Context, q models.TweetQuery, viewer *primitive.ObjectID) ([]models.TweetView, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Tweet
	for _, t := range s.tweets {
		if q.Author == nil || t.Author == *q.Author {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(a, b int) bool {
		return newer(matched[a].CreatedAt, matched[b].CreatedAt, matched[a].ID, matched[b].ID)
	})

	views := []models.TweetView{}
	for _, t := range window(matched, q.Pagination) {
		views = append(views, s.tweetView(t, viewer))
	}
	return views, int64(len(matched)), nil
}

func (s *Store) UpdateTweetContent(_ context.Context, id primitive.ObjectID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tweets[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Content = content
	t.UpdatedAt = s.tick()
	s.tweets[id] = t
	return nil
}

func (s *Store) DeleteTweet(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}
