package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// PasswordCost is the bcrypt cost used for stored passwords.
const PasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Branches lists the academic branches a user may belong to.
var Branches = []string{
	"Computer Science",
	"Electronics (ECE)",
	"Electrical (EEE)",
	"Mechanical",
	"Civil",
	"Chemical",
	"Metallurgy",
	"Biotech",
	"Production",
	"Architecture",
}

// Avatars lists the selectable avatar ids.
var Avatars = []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}

type SocialLinks struct {
	LinkedIn  string `json:"linkedIn,omitempty" bson:"linkedIn,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// User is a registered account. Credential and token fields never leave
// the server: they are excluded from JSON.
type User struct {
	ID                       primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Email                    string               `json:"email" bson:"email"`
	Password                 string               `json:"-" bson:"password"`
	Name                     string               `json:"name" bson:"name"`
	Branch                   string               `json:"branch" bson:"branch"`
	Batch                    string               `json:"batch" bson:"batch"`
	Avatar                   string               `json:"avatar" bson:"avatar"`
	Role                     Role                 `json:"role" bson:"role"`
	SocialLinks              SocialLinks          `json:"socialLinks" bson:"socialLinks"`
	SavedPosts               []primitive.ObjectID `json:"savedPosts" bson:"savedPosts"`
	IsVerified               bool                 `json:"isVerified" bson:"isVerified"`
	VerificationToken        string               `json:"-" bson:"verificationToken,omitempty"`
	VerificationTokenExpires *time.Time           `json:"-" bson:"verificationTokenExpires,omitempty"`
	PasswordResetToken       string               `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires     *time.Time           `json:"-" bson:"passwordResetExpires,omitempty"`
	RefreshToken             string               `json:"-" bson:"refreshToken,omitempty"`
	CreatedAt                time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt                time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// SetPassword stores the bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func IsValidBranch(branch string) bool {
	return contains(Branches, branch)
}

func IsValidAvatar(avatar string) bool {
	return contains(Avatars, avatar)
}

// IsInstitutionEmail reports whether email belongs to domain.
func IsInstitutionEmail(email, domain string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return domain != "" && strings.HasSuffix(email, "@"+strings.ToLower(domain))
}

// IsHTTPURL is the check applied to profile links.
func IsHTTPURL(link string) bool {
	l := strings.ToLower(link)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// RegisterRequest is the body of POST /users/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=80"`
	Branch   string `json:"branch" validate:"required"`
	Batch    string `json:"batch" validate:"required"`
	AvatarID string `json:"avatarId" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateDetailsRequest struct {
	Name   string `json:"name"`
	Batch  string `json:"batch"`
	Branch string `json:"branch"`
}

type UpdateAvatarRequest struct {
	AvatarID string `json:"avatarId" validate:"required"`
}

type UpdateSocialLinksRequest struct {
	LinkedIn  string `json:"linkedIn"`
	Instagram string `json:"instagram"`
}

// RemoveSocialLinksRequest selects which links to clear.
type RemoveSocialLinksRequest struct {
	LinkedIn  bool `json:"linkedIn"`
	Instagram bool `json:"instagram"`
}

// ProfileUpdate is a partial update of a user's public profile. Nil
// pointers leave the field unchanged.
type ProfileUpdate struct {
	Name           *string
	Batch          *string
	Branch         *string
	Avatar         *string
	LinkedIn       *string
	Instagram      *string
	UnsetLinkedIn  bool
	UnsetInstagram bool
}

// Empty reports whether the update would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Batch == nil && p.Branch == nil && p.Avatar == nil &&
		p.LinkedIn == nil && p.Instagram == nil && !p.UnsetLinkedIn && !p.UnsetInstagram
}
