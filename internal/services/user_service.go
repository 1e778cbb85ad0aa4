package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/sanitize"
)

// UserService manages profiles and saved interviews.
type UserService struct {
	users      repositories.UserRepository
	interviews repositories.InterviewRepository
}

func NewUserService(users repositories.UserRepository, interviews repositories.InterviewRepository) *UserService {
	return &UserService{users: users, interviews: interviews}
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	return user, storeErr(err, "User not found")
}

// GetProfile looks up any user by hex id.
func (s *UserService) GetProfile(ctx context.Context, hexID string) (*models.User, error) {
	id, err := ParseID(hexID, "user")
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func optional(v string) *string {
	v = sanitize.Text(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *UserService) UpdateDetails(ctx context.Context, id primitive.ObjectID, req models.UpdateDetailsRequest) (*models.User, error) {
	update := models.ProfileUpdate{
		Name:   optional(req.Name),
		Batch:  optional(req.Batch),
		Branch: optional(req.Branch),
	}
	if update.Empty() {
		return nil, apperror.BadRequest("At least one field is required")
	}
	if update.Branch != nil && !models.IsValidBranch(*update.Branch) {
		return nil, apperror.BadRequest("Invalid branch")
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	return user, storeErr(err, "User not found")
}

func (s *UserService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarID string) (*models.User, error) {
	avatarID = strings.TrimSpace(avatarID)
	if avatarID == "" {
		return nil, apperror.BadRequest("AvatarId is required")
	}
	if !models.IsValidAvatar(avatarID) {
		return nil, apperror.BadRequest("Invalid avatar selection")
	}
	user, err := s.users.UpdateProfile(ctx, id, models.ProfileUpdate{Avatar: &avatarID})
	return user, storeErr(err, "User not found")
}

func (s *UserService) UpdateSocialLinks(ctx context.Context, id primitive.ObjectID, req models.UpdateSocialLinksRequest) (*models.User, error) {
	update := models.ProfileUpdate{
		LinkedIn:  optional(req.LinkedIn),
		Instagram: optional(req.Instagram),
	}
	if update.Empty() {
		return nil, apperror.BadRequest("At least one social link is required")
	}
	if update.LinkedIn != nil && !models.IsHTTPURL(*update.LinkedIn) {
		return nil, apperror.BadRequest("LinkedIn link must be a valid URL")
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	return user, storeErr(err, "User not found")
}

func (s *UserService) RemoveSocialLinks(ctx context.Context, id primitive.ObjectID, req models.RemoveSocialLinksRequest) (*models.User, error) {
	update := models.ProfileUpdate{UnsetLinkedIn: req.LinkedIn, UnsetInstagram: req.Instagram}
	if update.Empty() {
		return nil, apperror.BadRequest("At least one social link must be selected for removal")
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	return user, storeErr(err, "User not found")
}

// ToggleSavedPost saves or unsaves an interview and returns the saved
// list afterwards.
func (s *UserService) ToggleSavedPost(ctx context.Context, userID primitive.ObjectID, postHex string) (bool, []primitive.ObjectID, error) {
	postID, err := ParseID(postHex, "post")
	if err != nil {
		return false, nil, err
	}
	if _, err := s.interviews.GetInterviewByID(ctx, postID); err != nil {
		return false, nil, storeErr(err, "Interview not found")
	}
	saved, list, err := s.users.ToggleSavedPost(ctx, userID, postID)
	if err != nil {
		return false, nil, storeErr(err, "User not found")
	}
	if list == nil {
		list = []primitive.ObjectID{}
	}
	return saved, list, nil
}

// SavedPosts lists the interviews the user saved, newest first.
func (s *UserService) SavedPosts(ctx context.Context, userID primitive.ObjectID) ([]models.InterviewView, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	if len(user.SavedPosts) == 0 {
		return []models.InterviewView{}, nil
	}
	views, _, err := s.interviews.ListInterviews(ctx, models.InterviewQuery{IDs: user.SavedPosts}, &userID)
	return views, storeErr(err, "")
}

// MyPosts lists the interviews written by the user, newest first.
func (s *UserService) MyPosts(ctx context.Context, userID primitive.ObjectID) ([]models.InterviewView, error) {
	views, _, err := s.interviews.ListInterviews(ctx, models.InterviewQuery{Author: &userID}, &userID)
	return views, storeErr(err, "")
}
