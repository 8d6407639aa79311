// Package services composes backend calls into the views of the client.
package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"golang.org/x/sync/errgroup"
)

type ProfileReader interface {
	MyProfile(ctx context.Context) (*models.Profile, error)
}

type MatchReader interface {
	Matches(ctx context.Context) ([]models.ScholarshipMatch, error)
}

// Dashboard is the signed-in landing view. Profile is nil when the user has
// not created one.
type Dashboard struct {
	Profile        *models.Profile
	Matches        []models.ScholarshipMatch
	PotentialAward float64
}

type DashboardService struct {
	profiles ProfileReader
	matches  MatchReader
}

func NewDashboardService(profiles ProfileReader, matches MatchReader) *DashboardService {
	return &DashboardService{profiles: profiles, matches: matches}
}

// Load fetches the profile and the matches concurrently. The first failure
// cancels the other call and is returned.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		profile *models.Profile
		matches []models.ScholarshipMatch
	)

	g.Go(func() error {
		p, err := s.profiles.MyProfile(ctx)
		profile = p
		return err
	})
	g.Go(func() error {
		m, err := s.matches.Matches(ctx)
		matches = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	return &Dashboard{
		Profile:        profile,
		Matches:        matches,
		PotentialAward: PotentialAward(matches),
	}, nil
}

// PotentialAward sums the largest payout of every matched scholarship.
func PotentialAward(matches []models.ScholarshipMatch) float64 {
	var total float64
	for _, m := range matches {
		total += m.Scholarship.PotentialAward()
	}
	return total
}
