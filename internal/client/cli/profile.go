package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Profile prints the scholarship profile and its completion.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profiles.Load(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		a.println("You have not created a profile yet. Run 'profile edit' to start.")
		return nil
	}

	a.println("Personal")
	a.printf("  Name:            %s %s\n", p.FirstName, p.LastName)
	a.printf("  Location:        %s\n", strings.Trim(strings.Join([]string{p.City, p.State, p.ZipCode}, " "), " "))
	a.println("Academic")
	a.printf("  High school:     %s\n", p.HighSchool)
	if p.GPA != nil {
		a.printf("  GPA:             %.2f\n", *p.GPA)
	}
	if p.GraduationYear > 0 {
		a.printf("  Graduation year: %d\n", p.GraduationYear)
	}
	a.printf("  Intended major:  %s\n", p.IntendedMajor)
	a.println("Financial")
	a.printf("  Income bracket:  %s\n", p.HouseholdIncome)
	a.printf("  First gen:       %s\n", yesNo(p.FirstGeneration))
	a.printf("  Financial need:  %s\n", yesNo(p.FinancialNeed))
	a.println("Activities")
	a.printf("  Extracurriculars: %s\n", strings.Join(p.Extracurriculars, ", "))
	a.printf("  Volunteer hours:  %d\n", p.VolunteerHours)
	a.printf("  Awards:           %s\n", strings.Join(p.Awards, ", "))
	a.printf("  Career goals:     %s\n", p.CareerGoals)

	a.printCompletion()
	return nil
}

// EditProfile walks through the profile fields. Pressing Enter keeps the
// current value; "-" clears it.
func (a *App) EditProfile(ctx context.Context) error {
	current, err := a.profiles.Load(ctx)
	if err != nil {
		return err
	}
	p := models.Profile{}
	if current != nil {
		p = *current
	}

	e := &fieldEditor{app: a}
	p.FirstName = e.text("First name", p.FirstName)
	p.LastName = e.text("Last name", p.LastName)
	p.DateOfBirth = e.text("Date of birth (YYYY-MM-DD)", p.DateOfBirth)
	p.Phone = e.text("Phone", p.Phone)
	p.City = e.text("City", p.City)
	p.State = e.text("State", p.State)
	p.ZipCode = e.text("ZIP code", p.ZipCode)
	p.HighSchool = e.text("High school", p.HighSchool)
	p.GPA = e.gpa("GPA (0.0-4.0)", p.GPA)
	p.GraduationYear = e.number("Graduation year", p.GraduationYear)
	p.IntendedMajor = e.text("Intended major", p.IntendedMajor)
	p.SATScore = e.number("SAT score", p.SATScore)
	p.ACTScore = e.number("ACT score", p.ACTScore)
	p.HouseholdIncome = e.text("Household income bracket", p.HouseholdIncome)
	p.FirstGeneration = e.flag("First-generation student (y/n)", p.FirstGeneration)
	p.FinancialNeed = e.flag("Financial need (y/n)", p.FinancialNeed)
	p.Extracurriculars = e.list("Extracurriculars (comma separated)", p.Extracurriculars)
	p.VolunteerHours = e.number("Volunteer hours", p.VolunteerHours)
	p.Awards = e.list("Awards (comma separated)", p.Awards)
	p.CareerGoals = e.text("Career goals", p.CareerGoals)
	p.EssayTopics = e.list("Essay topics (comma separated)", p.EssayTopics)
	if e.err != nil {
		return e.err
	}

	if _, err := a.profiles.Save(ctx, &p); err != nil {
		return err
	}
	a.println("Profile saved.")

	if err := a.profile.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "profile summary refresh failed", "error", err)
	}
	a.printCompletion()
	return nil
}

// Dashboard shows the profile completion and the best matches.
func (a *App) Dashboard(ctx context.Context) error {
	a.profile.Wait()

	if !a.profile.IsProfileCompleted() {
		a.println("Your profile is incomplete. Finish it to unlock matched scholarships (profile edit).")
		a.printCompletion()
		return nil
	}

	d, err := a.dashboard.Load(ctx)
	if err != nil {
		return err
	}

	if d.Profile != nil && d.Profile.FirstName != "" {
		a.printf("Welcome back, %s!\n", d.Profile.FirstName)
	}
	a.printf("Matched scholarships: %d\n", len(d.Matches))
	a.printf("Potential awards:     $%.0f\n", d.PotentialAward)

	for i, m := range d.Matches {
		if i == 5 {
			a.printf("... and %d more (matches)\n", len(d.Matches)-i)
			break
		}
		a.printf("%3.0f%% ", m.MatchScore)
		a.printScholarshipLine(m.Scholarship)
	}
	return nil
}

func (a *App) printCompletion() {
	if msg := a.profile.ErrorMessage(); msg != "" {
		a.printf("Profile status unavailable: %s\n", msg)
		return
	}
	s := a.profile.Summary()
	if s == nil {
		return
	}
	a.printf("Completion: %.0f%%\n", s.CompletionPercentage)
	if len(s.MissingFields) > 0 {
		a.printf("Missing:    %s\n", strings.Join(s.MissingFields, ", "))
	}
}

// fieldEditor prompts for one field at a time and keeps the first error,
// after which every prompt returns the current value unchanged.
type fieldEditor struct {
	app *App
	err error
}

func (e *fieldEditor) ask(label, current string) (string, bool) {
	if e.err != nil {
		return "", false
	}

	prompt := label
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", label, current)
	}
	v, err := getSimpleText(e.app.reader, prompt, e.app.out)
	if err != nil {
		e.err = err
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

func (e *fieldEditor) text(label, current string) string {
	v, ok := e.ask(label, current)
	switch {
	case !ok:
		return current
	case v == "-":
		return ""
	default:
		return v
	}
}

func (e *fieldEditor) number(label string, current int) int {
	cur := ""
	if current != 0 {
		cur = strconv.Itoa(current)
	}
	v, ok := e.ask(label, cur)
	if !ok {
		return current
	}
	if v == "-" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %q is not a number", label, v)
		return current
	}
	return n
}

func (e *fieldEditor) gpa(label string, current *float64) *float64 {
	cur := ""
	if current != nil {
		cur = strconv.FormatFloat(*current, 'f', -1, 64)
	}
	v, ok := e.ask(label, cur)
	if !ok {
		return current
	}
	if v == "-" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.err = fmt.Errorf("%s: %q is not a number", label, v)
		return current
	}
	return &f
}

func (e *fieldEditor) flag(label string, current bool) bool {
	v, ok := e.ask(label, yesNo(current))
	if !ok {
		return current
	}
	switch strings.ToLower(v) {
	case "y", "yes", "true":
		return true
	case "n", "no", "false", "-":
		return false
	default:
		e.err = fmt.Errorf("%s: answer y or n", label)
		return current
	}
}

func (e *fieldEditor) list(label string, current []string) []string {
	v, ok := e.ask(label, strings.Join(current, ", "))
	if !ok {
		return current
	}
	if v == "-" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
