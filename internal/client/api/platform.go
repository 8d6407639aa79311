package api

import (
	"context"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

// PlatformAPI serves landing-page aggregates. Neither operation has a
// backend endpoint yet.
type PlatformAPI struct {
	c Doer
}

func NewPlatformAPI(c Doer) *PlatformAPI {
	return &PlatformAPI{c: c}
}

func (p *PlatformAPI) Stats(context.Context) (*models.PlatformStats, error) {
	return nil, notImplemented("platform statistics")
}

func (p *PlatformAPI) Testimonials(context.Context) ([]models.Testimonial, error) {
	return []models.Testimonial{}, nil
}
