package database

import (
	"context"

	"github.com/example/gateforge/pkg/models"
)

// ProfileRepository handles the user profile
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a new repository instance
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Load returns the stored profile or the default one before onboarding
func (r *ProfileRepository) Load(ctx context.Context) (models.UserProfile, error) {
	return loadProfile(ctx, r.store)
}

// Save stores the profile
func (r *ProfileRepository) Save(ctx context.Context, profile models.UserProfile) error {
	return r.store.Save(ctx, KeyUserProfile, profile)
}

func loadProfile(ctx context.Context, s *Store) (models.UserProfile, error) {
	var profile models.UserProfile
	ok, err := s.Get(ctx, KeyUserProfile, &profile)
	if err != nil {
		return models.UserProfile{}, err
	}
	if !ok {
		return models.DefaultProfile(), nil
	}
	// profiles saved before target years existed
	if len(profile.TargetYears) == 0 {
		profile.TargetYears = []int{models.DefaultTargetYear}
	}
	return profile, nil
}
