package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/sanitize"
)

type InterviewService struct {
	interviews repositories.InterviewRepository
	cascade    *cascade
}

func NewInterviewService(
	interviews repositories.InterviewRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	logger zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		interviews: interviews,
		cascade: &cascade{
			tx:       tx,
			comments: comments,
			likes:    likes,
			users:    users,
			logger:   logger.With().Str("component", "interviews").Logger(),
		},
	}
}

func checkInterviewEnums(typ, domain *string) error {
	if typ != nil && !models.IsValidInterviewType(*typ) {
		return apperror.BadRequest("Invalid interview type")
	}
	if domain != nil && !models.IsValidInterviewDomain(*domain) {
		return apperror.BadRequest("Invalid domain")
	}
	return nil
}

func sanitizeRounds(rounds []models.Round) []models.Round {
	out := make([]models.Round, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, models.Round{Title: sanitize.Text(r.Title), Description: sanitize.Text(r.Description)})
	}
	return out
}

// Create stores a new interview by author. The branch is taken from the
// author's profile.
func (s *InterviewService) Create(ctx context.Context, author *models.User, req models.CreateInterviewRequest) (*models.Interview, error) {
	if author.Branch == "" {
		return nil, apperror.BadRequest("company, role, type, branch, domain, tips are required")
	}
	if err := checkInterviewEnums(&req.Type, &req.Domain); err != nil {
		return nil, err
	}

	interview := &models.Interview{
		Author: author.ID,
		InterviewDetails: models.InterviewDetails{
			Company:       sanitize.Text(req.Company),
			Role:          sanitize.Text(req.Role),
			Type:          req.Type,
			Branch:        author.Branch,
			Domain:        req.Domain,
			InterviewDate: sanitize.Text(req.InterviewDate),
			Rounds:        sanitizeRounds(req.Rounds),
			HRRound:       sanitize.Text(req.HRRound),
			OfferDetails:  sanitize.Text(req.OfferDetails),
			Tips:          sanitize.Text(req.Tips),
		},
	}
	if interview.Company == "" || interview.Role == "" || interview.Tips == "" {
		return nil, apperror.BadRequest("company, role, type, branch, domain, tips are required")
	}

	if err := s.interviews.CreateInterview(ctx, interview); err != nil {
		return nil, storeErr(err, "")
	}
	return interview, nil
}

// List returns one page of interviews as seen by viewer.
func (s *InterviewService) List(ctx context.Context, q models.InterviewQuery, viewer *primitive.ObjectID) (*models.InterviewPage, error) {
	q.Pagination = NewPagination(q.Page, q.Limit)
	views, total, err := s.interviews.ListInterviews(ctx, q, viewer)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &models.InterviewPage{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: q.TotalPages(total),
		Interviews: views,
	}, nil
}

func (s *InterviewService) Get(ctx context.Context, hexID string, viewer *primitive.ObjectID) (*models.InterviewView, error) {
	id, err := ParseID(hexID, "interview")
	if err != nil {
		return nil, err
	}
	view, err := s.interviews.GetInterviewView(ctx, id, viewer)
	return view, storeErr(err, "Interview not found")
}

func blank(s *string) bool {
	return s != nil && *s == ""
}

// owned loads the interview and checks that caller wrote it.
func (s *InterviewService) owned(ctx context.Context, hexID string, caller primitive.ObjectID, action string) (*models.Interview, error) {
	id, err := ParseID(hexID, "interview")
	if err != nil {
		return nil, err
	}
	interview, err := s.interviews.GetInterviewByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Interview not found")
	}
	if interview.Author != caller {
		return nil, apperror.Forbidden("Forbidden: You can " + action + " only your interview")
	}
	return interview, nil
}

func (s *InterviewService) Update(ctx context.Context, hexID string, caller primitive.ObjectID, update models.InterviewUpdate) (*models.InterviewView, error) {
	interview, err := s.owned(ctx, hexID, caller, "update")
	if err != nil {
		return nil, err
	}
	if err := checkInterviewEnums(update.Type, update.Domain); err != nil {
		return nil, err
	}

	update.Company = sanitize.TextPtr(update.Company)
	update.Role = sanitize.TextPtr(update.Role)
	update.Tips = sanitize.TextPtr(update.Tips)
	if blank(update.Company) || blank(update.Role) || blank(update.Tips) {
		return nil, apperror.BadRequest("company, role and tips cannot be empty")
	}
	update.InterviewDate = sanitize.TextPtr(update.InterviewDate)
	update.HRRound = sanitize.TextPtr(update.HRRound)
	update.OfferDetails = sanitize.TextPtr(update.OfferDetails)
	if update.Rounds != nil {
		rounds := sanitizeRounds(*update.Rounds)
		update.Rounds = &rounds
	}

	if err := s.interviews.UpdateInterview(ctx, interview.ID, update); err != nil {
		return nil, storeErr(err, "Interview not found")
	}
	view, err := s.interviews.GetInterviewView(ctx, interview.ID, &caller)
	return view, storeErr(err, "Interview not found")
}

// Delete removes the interview with its comments, likes and saved
// references.
func (s *InterviewService) Delete(ctx context.Context, hexID string, caller primitive.ObjectID) error {
	interview, err := s.owned(ctx, hexID, caller, "delete")
	if err != nil {
		return err
	}
	err = s.cascade.deletePost(ctx, models.InterviewRef(interview.ID), func(ctx context.Context) error {
		return s.interviews.DeleteInterview(ctx, interview.ID)
	})
	return storeErr(err, "Interview not found")
}
