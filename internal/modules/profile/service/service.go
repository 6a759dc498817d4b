package profile

import (
	"context"
	"errors"
	"strings"

	"anoa.com/squadhub/internal/entity"
	profileDto "anoa.com/squadhub/internal/modules/profile/dto"
	profileRepo "anoa.com/squadhub/internal/modules/profile/repository"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/sanitize"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) (*profileDto.ProfileResponse, error)
}

type profileService struct {
	repo            profileRepo.ProfileRepository
	defaultLanguage string
}

func NewProfileService(repo profileRepo.ProfileRepository, defaultLanguage string) ProfileService {
	if defaultLanguage == "" {
		defaultLanguage = language.English.String()
	}
	return &profileService{
		repo:            repo,
		defaultLanguage: defaultLanguage,
	}
}

// GetCurrentProfile returns an empty profile for users who never saved one.
func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return profileDto.ToProfileResponse(&entity.Profile{ID: userID, Language: s.defaultLanguage}), nil
	}
	if err != nil {
		return nil, err
	}
	return profileDto.ToProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) (*profileDto.ProfileResponse, error) {
	profile := &entity.Profile{ID: userID, Language: s.defaultLanguage}
	var columns []string

	if input.Username != nil {
		username := strings.ReplaceAll(sanitize.Text(*input.Username), " ", "_")
		if len([]rune(username)) < 3 {
			return nil, apperror.InvalidInput("username must be at least 3 characters")
		}
		profile.Username = username
		columns = append(columns, "username")
	}

	if input.Language != nil {
		tag, err := language.Parse(*input.Language)
		if err != nil {
			return nil, apperror.InvalidInput("language must be a BCP 47 tag")
		}
		profile.Language = tag.String()
		columns = append(columns, "language")
	}

	if input.FCMToken != nil {
		profile.FCMToken = strings.TrimSpace(*input.FCMToken)
		columns = append(columns, "fcm_token")
	}

	if err := s.repo.Upsert(ctx, profile, columns); err != nil {
		return nil, err
	}

	return s.GetCurrentProfile(ctx, userID)
}
