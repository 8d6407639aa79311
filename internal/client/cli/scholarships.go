package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

const defaultPageSize = 10

var errProfileIncomplete = errors.New("complete your profile first to see matched scholarships (profile edit)")

// parseFilter turns search arguments into a filter. Words of the form
// key=value set category, min, max, after or page; the rest is the query.
func parseFilter(input string) (models.ScholarshipFilter, error) {
	f := models.ScholarshipFilter{Page: 1, PageSize: defaultPageSize}

	var words []string
	for _, w := range strings.Fields(input) {
		key, val, ok := strings.Cut(w, "=")
		if !ok {
			words = append(words, w)
			continue
		}

		var err error
		switch strings.ToLower(key) {
		case "category":
			f.Category = val
		case "min":
			f.MinAmount, err = strconv.ParseFloat(val, 64)
		case "max":
			f.MaxAmount, err = strconv.ParseFloat(val, 64)
		case "after":
			f.DeadlineAfter = val
		case "page":
			f.Page, err = strconv.Atoi(val)
			if err == nil && f.Page < 1 {
				err = errors.New("must be positive")
			}
		default:
			words = append(words, w)
		}
		if err != nil {
			return f, fmt.Errorf("invalid %s %q: %w", key, val, err)
		}
	}

	f.Query = strings.Join(words, " ")
	return f, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatAmount(s models.Scholarship) string {
	switch {
	case s.AmountMin > 0 && s.AmountMax > 0 && s.AmountMin != s.AmountMax:
		return fmt.Sprintf("$%.0f-$%.0f", s.AmountMin, s.AmountMax)
	case s.PotentialAward() > 0:
		return fmt.Sprintf("$%.0f", s.PotentialAward())
	default:
		return "amount varies"
	}
}

func (a *App) printScholarshipLine(s models.Scholarship) {
	line := fmt.Sprintf("[%d] %s (%s)", s.ID, s.Title, formatAmount(s))
	if s.Deadline != "" {
		line += " due " + s.Deadline
	}
	a.println(line)
}

// Search lists one page of scholarships matching the query.
func (a *App) Search(ctx context.Context, input string) error {
	f, err := parseFilter(input)
	if err != nil {
		return err
	}

	page, err := a.scholarships.Search(ctx, f)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		a.println("No scholarships found.")
		return nil
	}
	for _, s := range page.Items {
		a.printScholarshipLine(s)
	}
	a.printf("Page %d, %d of %d result(s)\n", page.Page, len(page.Items), page.Total)
	return nil
}

func (a *App) Show(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	s, err := a.scholarships.Get(ctx, id)
	if err != nil {
		return err
	}

	a.printf("%s\n", s.Title)
	if s.Provider != "" {
		a.printf("Provider:    %s\n", s.Provider)
	}
	a.printf("Amount:      %s\n", formatAmount(*s))
	if s.Deadline != "" {
		a.printf("Deadline:    %s\n", s.Deadline)
	}
	if len(s.Categories) > 0 {
		a.printf("Categories:  %s\n", strings.Join(s.Categories, ", "))
	}
	if s.Renewable {
		a.println("Renewable:   yes")
	}
	if s.Eligibility != "" {
		a.printf("Eligibility: %s\n", s.Eligibility)
	}
	if s.URL != "" {
		a.printf("Apply at:    %s\n", s.URL)
	}
	if s.Description != "" {
		a.println()
		a.println(s.Description)
	}
	return nil
}

func (a *App) Reviews(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	reviews, err := a.reviews.ForScholarship(ctx, id)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		a.println("No reviews yet.")
		return nil
	}

	for _, r := range reviews {
		a.printf("%s %s\n", strings.Repeat("*", r.Rating), r.Title)
		a.printf("  %s\n", r.Content)
	}
	return nil
}

// Review prompts for a rating, title and text and submits the review.
func (a *App) Review(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	rawRating, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(rawRating)
	if err != nil {
		return fmt.Errorf("invalid rating %q", rawRating)
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Your review", a.out)
	if err != nil {
		return err
	}

	saved, err := a.reviews.Submit(ctx, &models.Review{
		ScholarshipID: id,
		Rating:        rating,
		Title:         title,
		Content:       content,
	})
	if err != nil {
		return err
	}

	a.printf("Review %d submitted.\n", saved.ID)
	return nil
}

// Matches lists the scholarships matched to the user's profile. It needs a
// completed profile.
func (a *App) Matches(ctx context.Context, refresh bool) error {
	a.profile.Wait()
	if !a.profile.IsProfileCompleted() {
		return errProfileIncomplete
	}

	if refresh {
		err := a.scholarships.RefreshMatches(ctx)
		switch {
		case errors.Is(err, api.ErrNotImplemented):
			a.println("Refreshing matches is not available yet, showing current matches.")
		case err != nil:
			return err
		}
	}

	matches, err := a.scholarships.Matches(ctx)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		a.println("No matches yet.")
		return nil
	}

	for _, m := range matches {
		a.printf("%3.0f%% ", m.MatchScore)
		a.printScholarshipLine(m.Scholarship)
		for _, r := range m.MatchReasons {
			a.printf("      - %s\n", r)
		}
	}
	return nil
}

// Stats prints platform statistics and testimonials when the backend has
// them.
func (a *App) Stats(ctx context.Context) error {
	stats, err := a.platform.Stats(ctx)
	switch {
	case errors.Is(err, api.ErrNotImplemented):
		a.println("Platform statistics are not available yet.")
	case err != nil:
		return err
	default:
		a.printf("Scholarships: %d\n", stats.TotalScholarships)
		a.printf("Students:     %d\n", stats.TotalUsers)
		a.printf("Awarded:      $%.0f\n", stats.TotalAwarded)
	}

	testimonials, err := a.platform.Testimonials(ctx)
	if err != nil {
		return err
	}
	for _, t := range testimonials {
		a.printf("%q - %s\n", t.Quote, t.Name)
	}
	return nil
}
