package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields, creates the account and signs
// into it. The password byte slice is wiped before returning. A failure
// is returned with the message the session recorded.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	first, err := getSimpleText(a.reader, "First name (optional)", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name (optional)", a.out)
	if err != nil {
		return err
	}

	in := models.RegisterInput{
		Email:     email,
		Username:  username,
		Password:  string(password),
		FirstName: first,
		LastName:  last,
	}
	if err := a.session.Register(ctx, in); err != nil {
		return a.sessionError(err)
	}

	a.printf("Account created. Signed in as %s\n", a.session.State().User.DisplayName())
	return nil
}

// Login prompts for email and password and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		return a.sessionError(err)
	}

	a.printf("Signed in as %s\n", a.session.State().User.DisplayName())
	return nil
}

// OAuth prints the provider's authorization URL, reads back the callback URL
// the browser landed on and completes the sign-in with its token.
func (a *App) OAuth(ctx context.Context, provider string) error {
	authURL, err := a.oauth.AuthorizationURL(ctx, provider)
	if err != nil {
		return err
	}

	a.println("Open this URL in your browser and sign in:")
	a.println(authURL)

	raw, err := getSimpleText(a.reader, "Paste the URL you were redirected to", a.out)
	if err != nil {
		return err
	}

	cb, err := api.ParseCallback(raw)
	if err != nil {
		return err
	}
	if cb.Error != "" {
		msg := cb.Message
		if msg == "" {
			msg = cb.Error
		}
		return fmt.Errorf("oauth sign-in failed: %s", msg)
	}

	if err := a.session.HandleOAuthToken(ctx, cb.Token); err != nil {
		return a.sessionError(err)
	}

	if cb.Message != "" {
		a.println(cb.Message)
	}
	a.printf("Signed in as %s\n", a.session.State().User.DisplayName())
	return nil
}

// Logout ends the session. The local sign-out cannot fail.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.println("Signed out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	u := a.session.State().User
	if u == nil {
		return common.ErrorNotAuthenticated
	}

	a.printf("ID:       %d\n", u.ID)
	a.printf("Username: %s\n", u.Username)
	a.printf("Email:    %s\n", u.Email)
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		a.printf("Name:     %s\n", name)
	}
	if u.CreatedAt != "" {
		a.printf("Joined:   %s\n", u.CreatedAt)
	}
	return nil
}

// Status shows the session state, token expiry and profile completion.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	a.printf("Session:  %s\n", st.Status)

	if exp, ok := a.session.TokenExpiry(ctx); ok {
		left := time.Until(exp).Round(time.Second)
		if left > 0 {
			a.printf("Token:    expires %s (in %s)\n", exp.Local().Format(time.RFC1123), left)
		} else {
			a.printf("Token:    expired %s\n", exp.Local().Format(time.RFC1123))
		}
	}

	a.profile.Wait()
	if msg := a.profile.ErrorMessage(); msg != "" {
		a.printf("Profile:  unavailable (%s)\n", msg)
		return nil
	}
	s := a.profile.Summary()
	if s == nil {
		a.println("Profile:  unknown")
		return nil
	}
	a.printf("Profile:  %.0f%% complete\n", s.CompletionPercentage)
	if len(s.MissingFields) > 0 {
		a.printf("Missing:  %s\n", strings.Join(s.MissingFields, ", "))
	}
	return nil
}

// sessionError prefers the message stored in the session state so what is
// printed matches what the session reports.
func (a *App) sessionError(err error) error {
	if msg := a.session.State().ErrorMessage(); msg != "" {
		return errors.New(msg)
	}
	return err
}
