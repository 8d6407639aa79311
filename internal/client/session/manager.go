package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/client/storage/token"
	"github.com/dmitrijs2005/scholarscout/internal/logging"
	"github.com/dmitrijs2005/scholarscout/internal/validation"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService is the part of the backend the session talks to.
// *api.AuthAPI implements it.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	CurrentUserWithToken(ctx context.Context, tok string) (*models.User, error)
	Logout(ctx context.Context, tok string) error
}

type Manager struct {
	auth   AuthService
	tokens token.Store
	log    logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	state   State
	subs    map[int]func(State)
	nextSub int

	initOnce sync.Once
	bg       sync.WaitGroup
}

func NewManager(auth AuthService, tokens token.Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		auth:   auth,
		tokens: tokens,
		log:    log,
		now:    time.Now,
		state:  unauthenticated(),
		subs:   map[int]func(State){},
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) User() *models.User { return m.State().User }

func (m *Manager) IsAuthenticated() bool { return m.State().IsAuthenticated() }

func (m *Manager) IsLoading() bool { return m.State().IsLoading() }

func (m *Manager) ErrorMessage() string { return m.State().ErrorMessage() }

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Initialize restores a stored session. Only the first call does anything.
// A token that cannot be restored is deleted and the session ends up
// Unauthenticated without an error message.
func (m *Manager) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		m.setState(authenticating())
		m.setState(m.restore(ctx))
	})
}

func (m *Manager) restore(ctx context.Context) State {
	tok, err := m.tokens.Token(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read stored token", "error", err)
		return unauthenticated()
	}
	if tok == "" {
		return unauthenticated()
	}

	if exp, ok := tokenExpiry(tok); ok && !exp.After(m.now()) {
		m.log.Info(ctx, "stored token expired", "expired_at", exp)
		m.dropToken(ctx)
		return unauthenticated()
	}

	user, err := m.auth.CurrentUserWithToken(ctx, tok)
	if err != nil {
		m.log.Info(ctx, "stored token rejected", "error", err)
		m.dropToken(ctx)
		return unauthenticated()
	}

	m.log.Debug(ctx, "session restored", "user_id", user.ID)
	return authenticated(user)
}

// Login exchanges credentials for a session. On failure no token is kept
// and the returned *Error carries the message also stored in the state.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setState(authenticating())

	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.dropToken(ctx)
		return m.failWith(loginMessage(err), err)
	}

	if err := m.tokens.SaveToken(ctx, resp.AccessToken); err != nil {
		m.log.Error(ctx, "failed to save token", "error", err)
		return m.failWith(MsgLoginFailed, err)
	}

	m.setState(authenticated(resp.User))
	return nil
}

// Register creates an account and logs into it with the same credentials.
func (m *Manager) Register(ctx context.Context, in models.RegisterInput) error {
	if err := validation.Struct(in); err != nil {
		return m.failWith(RegisterMessage(err), err)
	}

	m.setState(authenticating())

	if _, err := m.auth.Register(ctx, in); err != nil {
		return m.failWith(RegisterMessage(err), err)
	}

	return m.Login(ctx, in.Email, in.Password)
}

// HandleOAuthToken completes an OAuth sign-in. The token is checked against
// the backend first and persisted only once the user is known.
func (m *Manager) HandleOAuthToken(ctx context.Context, tok string) error {
	m.setState(authenticating())

	if tok == "" {
		m.dropToken(ctx)
		return m.failWith(MsgOAuthFailed, errors.New("empty oauth token"))
	}

	user, err := m.auth.CurrentUserWithToken(ctx, tok)
	if err != nil {
		m.dropToken(ctx)
		return m.failWith(MsgOAuthFailed, err)
	}

	if err := m.tokens.SaveToken(ctx, tok); err != nil {
		m.log.Error(ctx, "failed to save token", "error", err)
		m.dropToken(ctx)
		return m.failWith(MsgOAuthFailed, err)
	}

	m.setState(authenticated(user))
	return nil
}

// Logout ends the session locally and returns. The server-side logout runs
// in the background with the old token; its failure is only logged.
func (m *Manager) Logout(ctx context.Context) {
	old, err := m.tokens.Token(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read token on logout", "error", err)
	}

	m.dropToken(ctx)
	m.setState(unauthenticated())

	if old == "" {
		return
	}

	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		bgCtx := context.WithoutCancel(ctx)
		if err := m.auth.Logout(bgCtx, old); err != nil {
			m.log.Warn(bgCtx, "server logout failed", "error", err)
		}
	}()
}

// Wait blocks until background server calls started by Logout finish.
func (m *Manager) Wait() {
	m.bg.Wait()
}

// ClearError returns a failed session to Unauthenticated. Other states are
// left alone.
func (m *Manager) ClearError() {
	m.mu.RLock()
	failed := m.state.Status == StatusAuthFailed
	m.mu.RUnlock()

	if failed {
		m.setState(unauthenticated())
	}
}

// TokenRejected ends an authenticated session after the server refused the
// stored token. The API client has already removed the token.
func (m *Manager) TokenRejected(ctx context.Context) {
	m.mu.RLock()
	authed := m.state.Status == StatusAuthenticated
	m.mu.RUnlock()

	if authed {
		m.log.Info(ctx, "session expired: token rejected by server")
		m.setState(unauthenticated())
	}
}

// TokenExpiry returns the expiry of the stored token when it is a JWT
// carrying an exp claim.
func (m *Manager) TokenExpiry(ctx context.Context) (time.Time, bool) {
	tok, err := m.tokens.Token(ctx)
	if err != nil || tok == "" {
		return time.Time{}, false
	}
	return tokenExpiry(tok)
}

func (m *Manager) failWith(msg string, err error) error {
	m.setState(authFailed(msg))
	return fail(msg, err)
}

func (m *Manager) dropToken(ctx context.Context) {
	if err := m.tokens.ClearToken(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear token", "error", err)
	}
}

// tokenExpiry reads exp without verifying the signature; the client never
// holds the signing key.
func tokenExpiry(tok string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
