// Package testutil provides in-memory stand-ins for the repositories and
// external relays, used by service and handler tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
)

// Store implements every repository interface over maps. Timestamps
// advance by a millisecond per write so ordering is deterministic.
type Store struct {
	mu sync.Mutex

	users      map[primitive.ObjectID]models.User
	interviews map[primitive.ObjectID]models.Interview
	tweets     map[primitive.ObjectID]models.Tweet
	comments   map[primitive.ObjectID]models.Comment
	likes      map[primitive.ObjectID]models.Like
	developers map[uint]models.Developer
	nextDevID  uint
	clock      time.Time

	// Fail makes the named method return the error.
	Fail map[string]error
}

var (
	_ repositories.UserRepository      = (*Store)(nil)
	_ repositories.InterviewRepository = (*Store)(nil)
	_ repositories.TweetRepository     = (*Store)(nil)
	_ repositories.CommentRepository   = (*Store)(nil)
	_ repositories.LikeRepository      = (*Store)(nil)
	_ repositories.DeveloperRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:      map[primitive.ObjectID]models.User{},
		interviews: map[primitive.ObjectID]models.Interview{},
		tweets:     map[primitive.ObjectID]models.Tweet{},
		comments:   map[primitive.ObjectID]models.Comment{},
		likes:      map[primitive.ObjectID]models.Like{},
		developers: map[uint]models.Developer{},
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:       map[string]error{},
	}
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) fail(method string) error {
	return s.Fail[method]
}

func newer(aT, bT time.Time, aID, bID primitive.ObjectID) bool {
	if !aT.Equal(bT) {
		return aT.After(bT)
	}
	return aID.Hex() > bID.Hex()
}

func window[T any](items []T, p models.Pagination) []T {
	if p.Limit < 1 {
		return items
	}
	skip := p.Skip()
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + p.Limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateUser"); err != nil {
		return err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	now := s.tick()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	for _, u := range s.users {
		if match(u) {
			u := u
			u.SavedPosts = append([]primitive.ObjectID{}, u.SavedPosts...)
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.ID == id })
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *Store) GetUserByVerificationToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return nil, repositories.ErrNotFound
	}
	return s.findUser(func(u models.User) bool {
		return u.VerificationToken == token && u.VerificationTokenExpires != nil && u.VerificationTokenExpires.After(now)
	})
}

func (s *Store) GetUserByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokenHash == "" {
		return nil, repositories.ErrNotFound
	}
	return s.findUser(func(u models.User) bool {
		return u.PasswordResetToken == tokenHash && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now)
	})
}

func (s *Store) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) mutateUser(method string, id primitive.ObjectID, fn func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(method); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = s.tick()
	s.users[id] = u
	out := u
	out.SavedPosts = append([]primitive.ObjectID{}, u.SavedPosts...)
	return &out, nil
}

func (s *Store) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	_, err := s.mutateUser("MarkVerified", id, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
		u.VerificationTokenExpires = nil
	})
	return err
}

func (s *Store) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	_, err := s.mutateUser("SetRefreshToken", id, func(u *models.User) { u.RefreshToken = token })
	return err
}

func (s *Store) SetPasswordReset(_ context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := s.mutateUser("SetPasswordReset", id, func(u *models.User) {
		u.PasswordResetToken = tokenHash
		u.PasswordResetExpires = &expires
	})
	return err
}

func (s *Store) ClearPasswordReset(_ context.Context, id primitive.ObjectID) error {
	_, err := s.mutateUser("ClearPasswordReset", id, func(u *models.User) {
		u.PasswordResetToken = ""
		u.PasswordResetExpires = nil
	})
	return err
}

func (s *Store) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.mutateUser("UpdatePassword", id, func(u *models.User) {
		u.Password = hash
		u.PasswordResetToken = ""
		u.PasswordResetExpires = nil
	})
	return err
}

func (s *Store) UpdateProfile(_ context.Context, id primitive.ObjectID, p models.ProfileUpdate) (*models.User, error) {
	return s.mutateUser("UpdateProfile", id, func(u *models.User) {
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&u.Name, p.Name)
		set(&u.Batch, p.Batch)
		set(&u.Branch, p.Branch)
		set(&u.Avatar, p.Avatar)
		set(&u.SocialLinks.LinkedIn, p.LinkedIn)
		set(&u.SocialLinks.Instagram, p.Instagram)
		if p.UnsetLinkedIn {
			u.SocialLinks.LinkedIn = ""
		}
		if p.UnsetInstagram {
			u.SocialLinks.Instagram = ""
		}
	})
}

func (s *Store) ToggleSavedPost(_ context.Context, id, postID primitive.ObjectID) (bool, []primitive.ObjectID, error) {
	saved := false
	u, err := s.mutateUser("ToggleSavedPost", id, func(u *models.User) {
		kept := u.SavedPosts[:0:0]
		for _, p := range u.SavedPosts {
			if p != postID {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(u.SavedPosts) {
			kept = append(kept, postID)
			saved = true
		}
		u.SavedPosts = kept
	})
	if err != nil {
		return false, nil, err
	}
	return saved, u.SavedPosts, nil
}

func (s *Store) PullSavedPost(_ context.Context, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("PullSavedPost"); err != nil {
		return err
	}
	for id, u := range s.users {
		kept := []primitive.ObjectID{}
		for _, p := range u.SavedPosts {
			if p != postID {
				kept = append(kept, p)
			}
		}
		u.SavedPosts = kept
		s.users[id] = u
	}
	return nil
}

func (s *Store) SetRole(_ context.Context, email string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	u, err := s.findUser(func(u models.User) bool { return u.Email == email })
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.mutateUser("SetRole", u.ID, func(u *models.User) { u.Role = role })
}
