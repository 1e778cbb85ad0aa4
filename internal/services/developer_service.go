package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/anonto42/campus-diary/backend/internal/metrics"
	"github.com/anonto42/campus-diary/backend/internal/models"
	"github.com/anonto42/campus-diary/backend/internal/repositories"
	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/anonto42/campus-diary/backend/pkg/storage"
)

// DeveloperService manages the developer directory. Photos are stored on
// the media host; the directory keeps their URLs.
type DeveloperService struct {
	developers repositories.DeveloperRepository
	media      storage.MediaHost
	logger     zerolog.Logger
}

func NewDeveloperService(developers repositories.DeveloperRepository, media storage.MediaHost, logger zerolog.Logger) *DeveloperService {
	return &DeveloperService{
		developers: developers,
		media:      media,
		logger:     logger.With().Str("component", "developers").Logger(),
	}
}

func parseDeveloperID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("Invalid developer id")
	}
	return uint(id), nil
}

func (s *DeveloperService) List(ctx context.Context) ([]models.Developer, error) {
	developers, err := s.developers.GetDevelopers(ctx)
	return developers, storeErr(err, "")
}

func (s *DeveloperService) Get(ctx context.Context, idStr string) (*models.Developer, error) {
	id, err := parseDeveloperID(idStr)
	if err != nil {
		return nil, err
	}
	developer, err := s.developers.GetDeveloperByID(ctx, id)
	return developer, storeErr(err, "Developer not found")
}

func (s *DeveloperService) upload(ctx context.Context, path string) (string, error) {
	if s.media == nil {
		return "", apperror.Internal("Failed to upload photo", errors.New("no media host configured"))
	}
	url, err := s.media.Upload(ctx, path)
	metrics.MediaUploads.WithLabelValues(s.media.Name(), metrics.Status(err)).Inc()
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.media.Name()).Msg("photo upload failed")
		return "", apperror.Internal("Failed to upload photo", err)
	}
	return url, nil
}

// orphaned records a photo that was uploaded for a row that was never
// written, so it can be removed from the media host by hand.
func (s *DeveloperService) orphaned(url string, cause error) {
	s.logger.Warn().Err(cause).Str("url", url).Msg("uploaded photo left without a developer entry")
}

// sanitizeForm drops blank fields so they leave stored values alone.
func sanitizeForm(form *models.DeveloperForm) {
	form.Name = optional(ptrValue(form.Name))
	form.Role = optional(ptrValue(form.Role))
	form.GitHub = optional(ptrValue(form.GitHub))
	form.LinkedIn = optional(ptrValue(form.LinkedIn))
	form.Instagram = optional(ptrValue(form.Instagram))
}

func ptrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create adds the calling admin to the directory. Each user has at most
// one entry and a photo is required.
func (s *DeveloperService) Create(ctx context.Context, owner *models.User, form models.DeveloperForm, photoPath string) (*models.Developer, error) {
	ownerID := owner.ID.Hex()
	_, err := s.developers.GetDeveloperByOwner(ctx, ownerID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("Developer profile already exists for this user")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeErr(err, "")
	}

	if photoPath == "" {
		return nil, apperror.BadRequest("Developer photo is required")
	}

	sanitizeForm(&form)
	developer := &models.Developer{
		Owner: ownerID,
		Name:  owner.Name,
		Role:  models.DefaultDeveloperRole,
	}
	form.Apply(developer)

	if developer.PhotoURL, err = s.upload(ctx, photoPath); err != nil {
		return nil, err
	}

	if err := s.developers.CreateDeveloper(ctx, developer); err != nil {
		s.orphaned(developer.PhotoURL, err)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("Developer profile already exists for this user")
		}
		return nil, storeErr(err, "")
	}
	return developer, nil
}

// Update changes the sent fields and replaces the photo when one is given.
func (s *DeveloperService) Update(ctx context.Context, idStr string, form models.DeveloperForm, photoPath string) (*models.Developer, error) {
	developer, err := s.Get(ctx, idStr)
	if err != nil {
		return nil, err
	}

	sanitizeForm(&form)
	form.Apply(developer)

	if photoPath != "" {
		if developer.PhotoURL, err = s.upload(ctx, photoPath); err != nil {
			return nil, err
		}
	}

	if err := s.developers.UpdateDeveloper(ctx, developer); err != nil {
		if photoPath != "" {
			s.orphaned(developer.PhotoURL, err)
		}
		return nil, storeErr(err, "Developer not found")
	}
	return developer, nil
}

func (s *DeveloperService) Delete(ctx context.Context, idStr string) error {
	id, err := parseDeveloperID(idStr)
	if err != nil {
		return err
	}
	return storeErr(s.developers.DeleteDeveloper(ctx, id), "Developer not found")
}
