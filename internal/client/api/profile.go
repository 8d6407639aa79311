package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

// ProfileAPI reads and writes the extended profile of the current user.
type ProfileAPI struct {
	c Doer
}

func NewProfileAPI(c Doer) *ProfileAPI {
	return &ProfileAPI{c: c}
}

// MyProfile returns the profile, or nil when the user has not created one.
func (p *ProfileAPI) MyProfile(ctx context.Context) (*models.Profile, error) {
	var prof models.Profile
	err := p.c.Do(ctx, Request{Path: "/profiles/me"}, &prof)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// Summary returns the completion summary. A user without a profile gets
// models.DefaultProfileSummary rather than an error.
func (p *ProfileAPI) Summary(ctx context.Context) (*models.ProfileSummary, error) {
	var s models.ProfileSummary
	err := p.c.Do(ctx, Request{Path: "/profiles/me/summary"}, &s)
	if errors.Is(err, ErrNotFound) {
		return models.DefaultProfileSummary(), nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *ProfileAPI) Create(ctx context.Context, prof *models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := p.c.Do(ctx, Request{Method: http.MethodPost, Path: "/profiles/", Body: prof}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProfileAPI) Update(ctx context.Context, prof *models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := p.c.Do(ctx, Request{Method: http.MethodPut, Path: "/profiles/me", Body: prof}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
