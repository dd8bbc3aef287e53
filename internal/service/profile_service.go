package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/storage"

	"github.com/google/uuid"
)

// ProfileService defines the interface for profile business logic
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) error
	UploadAvatar(ctx context.Context, userID uuid.UUID, upload ImageUpload) (string, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	store       storage.ObjectStore
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, store storage.ObjectStore) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		store:       store,
	}
}

// GetProfile retrieves the profile row for a user. A user who never saved
// the account form gets an empty profile rather than an error.
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// SaveProfile upserts the profile row
func (s *profileService) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now()
	return s.profileRepo.Upsert(ctx, profile)
}

// UploadAvatar stores the avatar in the avatars bucket and records its
// public URL on the profile.
func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, upload ImageUpload) (string, error) {
	ext := path.Ext(upload.Filename)
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New(), ext)

	url, err := s.store.Upload(ctx, storage.BucketAvatars, key, upload.ContentType, upload.Body)
	if err != nil {
		return "", err
	}

	if err := s.profileRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}

	return url, nil
}
