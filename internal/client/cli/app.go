package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/client/services"
	"github.com/dmitrijs2005/scholarscout/internal/client/session"
	"github.com/dmitrijs2005/scholarscout/internal/logging"
)

// Session is the authentication surface the CLI drives.
// *session.Manager implements it.
type Session interface {
	State() session.State
	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, in models.RegisterInput) error
	HandleOAuthToken(ctx context.Context, tok string) error
	Logout(ctx context.Context)
	ClearError()
	TokenExpiry(ctx context.Context) (time.Time, bool)
	Wait()
}

// ProfileStatus is implemented by *profilestatus.Tracker.
type ProfileStatus interface {
	Start(ctx context.Context)
	Stop()
	Wait()
	Refresh(ctx context.Context) error
	Summary() *models.ProfileSummary
	ErrorMessage() string
	IsProfileCompleted() bool
	NavLabel() string
}

type OAuthService interface {
	AuthorizationURL(ctx context.Context, provider string) (string, error)
}

type ScholarshipService interface {
	Search(ctx context.Context, f models.ScholarshipFilter) (*models.ScholarshipPage, error)
	Get(ctx context.Context, id int64) (*models.Scholarship, error)
	Matches(ctx context.Context) ([]models.ScholarshipMatch, error)
	RefreshMatches(ctx context.Context) error
}

type ReviewService interface {
	ForScholarship(ctx context.Context, scholarshipID int64) ([]models.Review, error)
	Submit(ctx context.Context, r *models.Review) (*models.Review, error)
	Mine(ctx context.Context) ([]models.Review, error)
}

type PlatformService interface {
	Stats(ctx context.Context) (*models.PlatformStats, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
}

type DashboardService interface {
	Load(ctx context.Context) (*services.Dashboard, error)
}

type ProfileService interface {
	Load(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

// Deps lists what NewApp wires together. In and Out default to the
// process stdin and stdout.
type Deps struct {
	Session      Session
	Profile      ProfileStatus
	OAuth        OAuthService
	Scholarships ScholarshipService
	Reviews      ReviewService
	Platform     PlatformService
	Dashboard    DashboardService
	Profiles     ProfileService
	Logger       logging.Logger
	In           io.Reader
	Out          io.Writer
}

type App struct {
	session      Session
	profile      ProfileStatus
	oauth        OAuthService
	scholarships ScholarshipService
	reviews      ReviewService
	platform     PlatformService
	dashboard    DashboardService
	profiles     ProfileService
	log          logging.Logger
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(d Deps) *App {
	in, out, log := d.In, d.Out, d.Logger
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = logging.Discard()
	}

	return &App{
		session:      d.Session,
		profile:      d.Profile,
		oauth:        d.OAuth,
		scholarships: d.Scholarships,
		reviews:      d.Reviews,
		platform:     d.Platform,
		dashboard:    d.Dashboard,
		profiles:     d.Profiles,
		log:          log,
		reader:       bufio.NewReader(in),
		out:          out,
	}
}

// Run restores any stored session and runs the REPL until the user exits.
// Background work is joined before Run returns.
func (a *App) Run(ctx context.Context) {
	a.profile.Start(ctx)
	defer func() {
		a.profile.Stop()
		a.session.Wait()
	}()

	a.session.Initialize(ctx)

	fmt.Fprintln(a.out, "Welcome to ScholarScout CLI (type 'help' for commands)")
	if st := a.session.State(); st.IsAuthenticated() {
		fmt.Fprintf(a.out, "Signed in as %s\n", st.User.DisplayName())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated()
}

// clearError drops a login or registration failure once the user moves on.
func (a *App) clearError() {
	a.session.ClearError()
}

// getStatus renders the prompt status, e.g. "(alice | Complete Profile) ".
// It waits for a pending profile refresh so the label is current.
func (a *App) getStatus() string {
	st := a.session.State()
	if !st.IsAuthenticated() {
		return ""
	}
	a.profile.Wait()
	return fmt.Sprintf("(%s | %s) ", st.User.Username, a.profile.NavLabel())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
