package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// SentMail is one message captured by Mailer.
type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// Mailer records outgoing mail instead of sending it.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	Sent []SentMail
}

func (m *Mailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

// Last returns the most recent message, or a zero value.
func (m *Mailer) Last() SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}
	}
	return m.Sent[len(m.Sent)-1]
}

// MediaHost pretends to upload files and returns URL.
type MediaHost struct {
	mu       sync.Mutex
	URL      string
	Err      error
	Uploaded []string
}

func (h *MediaHost) Upload(_ context.Context, localPath string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return "", h.Err
	}
	h.Uploaded = append(h.Uploaded, localPath)
	if h.URL == "" {
		return "https://media.example.com/photo.png", nil
	}
	return h.URL, nil
}

func (h *MediaHost) Name() string { return "fake" }

// SeedUser inserts a verified user with the given password.
func SeedUser(t *testing.T, s *Store, email, password string) *models.User {
	t.Helper()
	u := &models.User{
		Email:      email,
		Name:       "Student " + email,
		Branch:     models.Branches[0],
		Batch:      "2026",
		Avatar:     models.Avatars[0],
		IsVerified: true,
	}
	require.NoError(t, u.SetPassword(password))
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// SeedAdmin inserts a verified admin.
func SeedAdmin(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := SeedUser(t, s, email, "secret123")
	admin, err := s.SetRole(context.Background(), email, models.RoleAdmin)
	require.NoError(t, err)
	*u = *admin
	return u
}

// SeedInterview inserts a minimal interview by author.
func SeedInterview(t *testing.T, s *Store, author *models.User, company string) *models.Interview {
	t.Helper()
	i := &models.Interview{
		Author: author.ID,
		InterviewDetails: models.InterviewDetails{
			Company: company,
			Role:    "SDE Intern",
			Type:    models.InterviewTypes[0],
			Branch:  author.Branch,
			Domain:  models.InterviewDomains[0],
			Rounds:  []models.Round{{Title: "OA", Description: "Two DSA problems"}},
			Tips:    "Practice graphs",
		},
	}
	require.NoError(t, s.CreateInterview(context.Background(), i))
	return i
}

// SeedTweet inserts a tweet by author.
func SeedTweet(t *testing.T, s *Store, author *models.User, content string) *models.Tweet {
	t.Helper()
	tw := &models.Tweet{Author: author.ID, Content: content}
	require.NoError(t, s.CreateTweet(context.Background(), tw))
	return tw
}
