package services

import (
	"context"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/validation"
)

type ProfileStore interface {
	ProfileReader
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

type ProfileService struct {
	store ProfileStore
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Load returns the current profile, or nil if none exists.
func (s *ProfileService) Load(ctx context.Context) (*models.Profile, error) {
	return s.store.MyProfile(ctx)
}

// Save validates p and creates the profile or updates the existing one.
func (s *ProfileService) Save(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	if p.GPA != nil {
		if err := validation.GPA(*p.GPA); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.MyProfile(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return s.store.Create(ctx, p)
	}
	return s.store.Update(ctx, p)
}
