package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

// ScholarshipAPI searches and displays scholarships.
type ScholarshipAPI struct {
	c Doer
}

func NewScholarshipAPI(c Doer) *ScholarshipAPI {
	return &ScholarshipAPI{c: c}
}

func (s *ScholarshipAPI) Search(ctx context.Context, f models.ScholarshipFilter) (*models.ScholarshipPage, error) {
	var page models.ScholarshipPage
	if err := s.c.Do(ctx, Request{Path: "/scholarships/", Query: filterQuery(f)}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.Scholarship{}
	}
	return &page, nil
}

func (s *ScholarshipAPI) Get(ctx context.Context, id int64) (*models.Scholarship, error) {
	var sch models.Scholarship
	if err := s.c.Do(ctx, Request{Path: "/scholarships/" + strconv.FormatInt(id, 10)}, &sch); err != nil {
		return nil, err
	}
	return &sch, nil
}

// Matches returns the scholarships matched to the current user's profile.
func (s *ScholarshipAPI) Matches(ctx context.Context) ([]models.ScholarshipMatch, error) {
	var matches []models.ScholarshipMatch
	if err := s.c.Do(ctx, Request{Path: "/scholarships/matches"}, &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.ScholarshipMatch{}
	}
	return matches, nil
}

// RefreshMatches would recompute matches on the server; the backend has no
// endpoint for it yet.
func (s *ScholarshipAPI) RefreshMatches(context.Context) error {
	return notImplemented("refreshing scholarship matches")
}

func filterQuery(f models.ScholarshipFilter) url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinAmount > 0 {
		q.Set("min_amount", strconv.FormatFloat(f.MinAmount, 'f', -1, 64))
	}
	if f.MaxAmount > 0 {
		q.Set("max_amount", strconv.FormatFloat(f.MaxAmount, 'f', -1, 64))
	}
	if f.DeadlineAfter != "" {
		q.Set("deadline_after", f.DeadlineAfter)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("size", strconv.Itoa(f.PageSize))
	}
	return q
}
