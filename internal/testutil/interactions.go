package testutil

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
)

// ---- comments ----

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt, comment.UpdatedAt = now, now
	s.comments[comment.ID] = *comment
	return nil
}

func (s *Store) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (s *Store) commentView(c models.Comment) models.CommentView {
	var author models.CommentAuthor
	if u, ok := s.users[c.Author]; ok {
		author = models.CommentAuthor{
			ID:          u.ID,
			Name:        u.Name,
			Avatar:      u.Avatar,
			SocialLinks: u.SocialLinks,
		}
	}
	return models.CommentView{
		ID:            c.ID,
		Content:       c.Content,
		Author:        author,
		Interview:     c.Interview,
		Tweet:         c.Tweet,
		ParentComment: c.ParentComment,
		Timestamps:    c.Timestamps,
	}
}

func (s *Store) GetCommentView(_ context.Context, id primitive.ObjectID) (*models.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := s.commentView(c)
	return &v, nil
}

func (s *Store) commentViews(match func(models.Comment) bool, oldestFirst bool, p models.Pagination) ([]models.CommentView, int64) {
	var matched []models.Comment
	for _, c := range s.comments {
		if match(c) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(a, b int) bool {
		n := newer(matched[a].CreatedAt, matched[b].CreatedAt, matched[a].ID, matched[b].ID)
		if oldestFirst {
			return !n
		}
		return n
	})
	views := []models.CommentView{}
	for _, c := range window(matched, p) {
		views = append(views, s.commentView(c))
	}
	return views, int64(len(matched))
}

func (s *Store) ListComments(_ context.Context, target models.PostRef, page models.Pagination) ([]models.CommentView, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views, total := s.commentViews(func(c models.Comment) bool { return c.BelongsTo(target) }, false, page)
	return views, total, nil
}

func (s *Store) ListReplies(_ context.Context, parent primitive.ObjectID) ([]models.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views, _ := s.commentViews(func(c models.Comment) bool {
		return c.ParentComment != nil && *c.ParentComment == parent
	}, true, models.Pagination{})
	return views, nil
}

func (s *Store) UpdateCommentContent(_ context.Context, id primitive.ObjectID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = s.tick()
	s.comments[id] = c
	return nil
}

func (s *Store) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) DeleteCommentsByTarget(_ context.Context, target models.PostRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteCommentsByTarget"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range s.comments {
		if c.BelongsTo(target) {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// CommentCount counts the comments on target.
func (s *Store) CommentCount(target models.PostRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.comments {
		if c.BelongsTo(target) {
			n++
		}
	}
	return n
}

// ---- likes ----

func (s *Store) CreateLike(_ context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateLike"); err != nil {
		return err
	}
	for _, l := range s.likes {
		if l.User == like.User && samePtr(l.Interview, like.Interview) && samePtr(l.Tweet, like.Tweet) {
			return repositories.ErrDuplicate
		}
	}
	now := s.tick()
	like.ID = primitive.NewObjectID()
	like.CreatedAt, like.UpdatedAt = now, now
	s.likes[like.ID] = *like
	return nil
}

func samePtr(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Store) DeleteLike(_ context.Context, user primitive.ObjectID, target models.PostRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.likes {
		if l.User == user && likeMatches(l, target) {
			delete(s.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountLikes(_ context.Context, target models.PostRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.likes {
		if likeMatches(l, target) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteLikesByTarget(_ context.Context, target models.PostRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteLikesByTarget"); err != nil {
		return 0, err
	}
	var n int64
	for id, l := range s.likes {
		if likeMatches(l, target) {
			delete(s.likes, id)
			n++
		}
	}
	return n, nil
}

// ---- developers ----

func (s *Store) CreateDeveloper(_ context.Context, d *models.Developer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateDeveloper"); err != nil {
		return err
	}
	for _, existing := range s.developers {
		if existing.Owner == d.Owner {
			return repositories.ErrDuplicate
		}
	}
	s.nextDevID++
	now := s.tick()
	d.ID = s.nextDevID
	d.CreatedAt, d.UpdatedAt = now, now
	s.developers[d.ID] = *d
	return nil
}

func (s *Store) GetDeveloperByID(_ context.Context, id uint) (*models.Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.developers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (s *Store) GetDeveloperByOwner(_ context.Context, owner string) (*models.Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.developers {
		if d.Owner == owner {
			d := d
			return &d, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) GetDevelopers(_ context.Context) ([]models.Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Developer{}
	for _, d := range s.developers {
		out = append(out, d)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (s *Store) UpdateDeveloper(_ context.Context, d *models.Developer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateDeveloper"); err != nil {
		return err
	}
	existing, ok := s.developers[d.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	d.Owner = existing.Owner
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = s.tick()
	s.developers[d.ID] = *d
	return nil
}

func (s *Store) DeleteDeveloper(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.developers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.developers, id)
	return nil
}
