package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/validation"
)

type ReviewAPI struct {
	c Doer
}

func NewReviewAPI(c Doer) *ReviewAPI {
	return &ReviewAPI{c: c}
}

func (r *ReviewAPI) ForScholarship(ctx context.Context, scholarshipID int64) ([]models.Review, error) {
	q := url.Values{}
	q.Set("scholarship_id", strconv.FormatInt(scholarshipID, 10))

	var reviews []models.Review
	if err := r.c.Do(ctx, Request{Path: "/reviews/", Query: q}, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Submit posts a review after checking it locally.
func (r *ReviewAPI) Submit(ctx context.Context, rev *models.Review) (*models.Review, error) {
	if err := validation.Struct(rev); err != nil {
		return nil, err
	}

	var out models.Review
	if err := r.c.Do(ctx, Request{Method: http.MethodPost, Path: "/reviews/", Body: rev}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine lists the current user's reviews. The backend does not serve them
// yet, so the list is always empty.
func (r *ReviewAPI) Mine(context.Context) ([]models.Review, error) {
	return []models.Review{}, nil
}
