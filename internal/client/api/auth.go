package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
)

// AuthAPI covers login, logout, account creation and the current user.
type AuthAPI struct {
	c Doer
}

func NewAuthAPI(c Doer) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges credentials for an access token and the user record.
// Credentials are sent form-encoded, with the email as the username field.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp models.AuthResponse
	if err := a.c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Form: form}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{Status: http.StatusOK, Message: "server did not return an access token", Kind: ErrUnexpected}
	}
	if resp.User == nil {
		u, err := a.CurrentUserWithToken(ctx, resp.AccessToken)
		if err != nil {
			return nil, err
		}
		resp.User = u
	}
	return &resp, nil
}

// Register creates a new account. It does not log in.
func (a *AuthAPI) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var u models.User
	if err := a.c.Do(ctx, Request{Method: http.MethodPost, Path: "/users/", Body: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentUser returns the user the stored token belongs to.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	return a.currentUser(ctx, "")
}

// CurrentUserWithToken returns the user tok belongs to without touching
// the token store.
func (a *AuthAPI) CurrentUserWithToken(ctx context.Context, tok string) (*models.User, error) {
	return a.currentUser(ctx, tok)
}

func (a *AuthAPI) currentUser(ctx context.Context, tok string) (*models.User, error) {
	var u models.User
	if err := a.c.Do(ctx, Request{Path: "/users/me", Token: tok}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout asks the server to invalidate tok. An empty tok sends the stored one.
func (a *AuthAPI) Logout(ctx context.Context, tok string) error {
	return a.c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/logout", Token: tok}, nil)
}
