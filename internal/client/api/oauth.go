package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoCallbackParams is returned when a callback URL carries neither a
// token nor an error.
var ErrNoCallbackParams = errors.New("callback has no token or error")

// OAuthAPI obtains provider redirect URLs from the backend. The provider
// protocol itself is handled entirely by the backend.
type OAuthAPI struct {
	c Doer
}

func NewOAuthAPI(c Doer) *OAuthAPI {
	return &OAuthAPI{c: c}
}

type authorizationURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// AuthorizationURL returns the URL the user must open to sign in with provider.
func (o *OAuthAPI) AuthorizationURL(ctx context.Context, provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", errors.New("provider is required")
	}

	var resp authorizationURLResponse
	if err := o.c.Do(ctx, Request{Path: "/oauth/" + url.PathEscape(provider) + "/authorize"}, &resp); err != nil {
		return "", err
	}
	if resp.AuthorizationURL == "" {
		return "", &Error{Status: 200, Message: "server did not return an authorization URL", Kind: ErrUnexpected}
	}
	return resp.AuthorizationURL, nil
}

// CallbackResult holds what the backend delivered on the callback URL.
type CallbackResult struct {
	Token   string
	Message string
	Error   string
}

// ParseCallback reads token, message and error from a callback URL. A bare
// query string ("token=...") is accepted as well.
func ParseCallback(raw string) (CallbackResult, error) {
	raw = strings.TrimSpace(raw)

	query := raw
	if u, err := url.Parse(raw); err == nil && (u.Scheme != "" || u.RawQuery != "") {
		query = u.RawQuery
	} else {
		query = strings.TrimPrefix(query, "?")
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("parse callback: %w", err)
	}

	res := CallbackResult{
		Token:   values.Get("token"),
		Message: values.Get("message"),
		Error:   values.Get("error"),
	}
	if res.Token == "" && res.Error == "" {
		return res, ErrNoCallbackParams
	}
	return res, nil
}
