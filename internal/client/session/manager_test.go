package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/client/api/apitest"
	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/client/storage/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *mockAuth) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuth) CurrentUserWithToken(ctx context.Context, tok string) (*models.User, error) {
	args := m.Called(ctx, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, tok string) error {
	args := m.Called(ctx, tok)
	return args.Error(0)
}

// recorder collects every state a manager publishes.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s.Status)
	}
	return out
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func storedToken(t *testing.T, s token.Store) string {
	t.Helper()
	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	return tok
}

// newLiveManager wires a manager to the fake backend through the real API client.
func newLiveManager(t *testing.T, stored string) (*Manager, *apitest.Backend, *token.MemoryStore) {
	t.Helper()
	b := apitest.New()
	t.Cleanup(b.Close)

	store := token.NewMemoryStore(stored)
	c, err := api.New(b.URL(), store)
	require.NoError(t, err)
	return NewManager(api.NewAuthAPI(c), store, nil), b, store
}

func TestInitialize_NoToken(t *testing.T) {
	auth := &mockAuth{}
	m := NewManager(auth, token.NewMemoryStore(""), nil)
	rec := &recorder{}
	m.Subscribe(rec.observe)

	m.Initialize(context.Background())

	assert.Equal(t, []Status{StatusAuthenticating, StatusUnauthenticated}, rec.statuses())
	assert.False(t, m.IsLoading())
	assert.Empty(t, m.ErrorMessage())
	auth.AssertNotCalled(t, "CurrentUserWithToken", mock.Anything, mock.Anything)
}

func TestInitialize_RestoresSession(t *testing.T) {
	b := apitest.New()
	t.Cleanup(b.Close)
	u := b.AddUser("user@example.com", "user1", "password123")
	tok := b.IssueToken(u.ID)

	store := token.NewMemoryStore(tok)
	c, err := api.New(b.URL(), store)
	require.NoError(t, err)
	m := NewManager(api.NewAuthAPI(c), store, nil)

	m.Initialize(context.Background())

	require.True(t, m.IsAuthenticated())
	assert.Equal(t, "user@example.com", m.User().Email)
	assert.False(t, m.IsLoading())
	assert.Equal(t, tok, storedToken(t, store))
}

func TestInitialize_RejectedTokenIsDropped(t *testing.T) {
	m, _, store := newLiveManager(t, "revoked")

	m.Initialize(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Empty(t, m.ErrorMessage())
	assert.Empty(t, storedToken(t, store))
}

func TestInitialize_NetworkFailureDropsToken(t *testing.T) {
	auth := &mockAuth{}
	auth.On("CurrentUserWithToken", mock.Anything, "opaque").
		Return(nil, &api.Error{Message: "network error: refused", Kind: api.ErrNetwork})
	store := token.NewMemoryStore("opaque")
	m := NewManager(auth, store, nil)

	m.Initialize(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Empty(t, storedToken(t, store))
	auth.AssertExpectations(t)
}

func TestInitialize_ExpiredJWTSkipsNetwork(t *testing.T) {
	auth := &mockAuth{}
	store := token.NewMemoryStore(signedJWT(t, time.Now().Add(-time.Hour)))
	m := NewManager(auth, store, nil)

	m.Initialize(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Empty(t, storedToken(t, store))
	auth.AssertNotCalled(t, "CurrentUserWithToken", mock.Anything, mock.Anything)
}

func TestInitialize_ValidJWTIsChecked(t *testing.T) {
	tok := signedJWT(t, time.Now().Add(time.Hour))
	auth := &mockAuth{}
	auth.On("CurrentUserWithToken", mock.Anything, tok).Return(&models.User{ID: 3, Username: "jwt"}, nil).Once()
	m := NewManager(auth, token.NewMemoryStore(tok), nil)

	m.Initialize(context.Background())
	m.Initialize(context.Background())

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, int64(3), m.State().UserID())
	auth.AssertNumberOfCalls(t, "CurrentUserWithToken", 1)
}

func TestLogin_Success(t *testing.T) {
	m, b, store := newLiveManager(t, "")
	b.AddUser("user@example.com", "user1", "password123")
	rec := &recorder{}
	m.Subscribe(rec.observe)

	require.NoError(t, m.Login(context.Background(), "user@example.com", "password123"))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "user1", m.User().Username)
	tok := storedToken(t, store)
	assert.NotEmpty(t, tok)
	assert.True(t, b.TokenValid(tok))
	assert.Equal(t, []Status{StatusAuthenticating, StatusAuthenticated}, rec.statuses())
}

func TestLogin_WrongPassword(t *testing.T) {
	m, b, store := newLiveManager(t, "")
	b.AddUser("user@example.com", "user1", "password123")

	err := m.Login(context.Background(), "user@example.com", "nope")
	require.Error(t, err)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Incorrect email or password", se.Message)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)

	st := m.State()
	assert.Equal(t, StatusAuthFailed, st.Status)
	assert.Equal(t, "Incorrect email or password", st.ErrorMessage())
	assert.Nil(t, st.User)
	assert.Empty(t, storedToken(t, store))
}

func TestLogin_SaveTokenFailure(t *testing.T) {
	auth := &mockAuth{}
	auth.On("Login", mock.Anything, "a@b.c", "password123").
		Return(&models.AuthResponse{AccessToken: "", User: &models.User{ID: 1}}, nil)
	m := NewManager(auth, token.NewMemoryStore(""), nil)

	err := m.Login(context.Background(), "a@b.c", "password123")
	require.Error(t, err)
	assert.Equal(t, MsgLoginFailed, m.ErrorMessage())
	assert.False(t, m.IsAuthenticated())
}

func TestRegister_SuccessLogsIn(t *testing.T) {
	m, b, store := newLiveManager(t, "")

	err := m.Register(context.Background(), models.RegisterInput{
		Email: "new@example.com", Username: "newbie", Password: "password123",
	})
	require.NoError(t, err)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "newbie", m.User().Username)
	assert.True(t, b.TokenValid(storedToken(t, store)))
}

func TestRegister_ServerRejections(t *testing.T) {
	m, b, store := newLiveManager(t, "")
	b.AddUser("taken@example.com", "taken", "password123")

	err := m.Register(context.Background(), models.RegisterInput{
		Email: "taken@example.com", Username: "fresh", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, MsgEmailExists, err.Error())
	assert.Equal(t, MsgEmailExists, m.ErrorMessage())

	err = m.Register(context.Background(), models.RegisterInput{
		Email: "fresh@example.com", Username: "taken", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, MsgUsernameTaken, m.ErrorMessage())
	assert.Empty(t, storedToken(t, store))
}

func TestRegister_LocalValidation(t *testing.T) {
	auth := &mockAuth{}
	m := NewManager(auth, token.NewMemoryStore(""), nil)

	tests := []struct {
		name string
		in   models.RegisterInput
		want string
	}{
		{"email", models.RegisterInput{Email: "nope", Username: "user1", Password: "password123"}, MsgInvalidEmail},
		{"password", models.RegisterInput{Email: "a@b.co", Username: "user1", Password: "short"}, MsgInvalidPassword},
		{"username", models.RegisterInput{Email: "a@b.co", Username: "no spaces!", Password: "password123"}, MsgInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Register(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, m.ErrorMessage())
		})
	}
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestHandleOAuthToken_Success(t *testing.T) {
	m, b, store := newLiveManager(t, "")
	u := b.AddUser("oauth@example.com", "oauthy", "password123")
	tok := b.IssueToken(u.ID)

	require.NoError(t, m.HandleOAuthToken(context.Background(), tok))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, u.ID, m.User().ID)
	assert.Equal(t, tok, storedToken(t, store))
}

func TestHandleOAuthToken_Failure(t *testing.T) {
	m, _, store := newLiveManager(t, "left-over")

	err := m.HandleOAuthToken(context.Background(), "forged")
	require.Error(t, err)
	assert.Equal(t, MsgOAuthFailed, err.Error())

	st := m.State()
	assert.Equal(t, StatusAuthFailed, st.Status)
	assert.Equal(t, MsgOAuthFailed, st.ErrorMessage())
	assert.Empty(t, storedToken(t, store))
}

func TestHandleOAuthToken_TokenNotPersistedBeforeUserKnown(t *testing.T) {
	store := token.NewMemoryStore("")
	auth := &mockAuth{}
	auth.On("CurrentUserWithToken", mock.Anything, "cand").Run(func(mock.Arguments) {
		tok, _ := store.Token(context.Background())
		assert.Empty(t, tok)
	}).Return(&models.User{ID: 9}, nil)
	m := NewManager(auth, store, nil)

	require.NoError(t, m.HandleOAuthToken(context.Background(), "cand"))
	assert.Equal(t, "cand", storedToken(t, store))
}

func TestHandleOAuthToken_Empty(t *testing.T) {
	m := NewManager(&mockAuth{}, token.NewMemoryStore("x"), nil)

	require.Error(t, m.HandleOAuthToken(context.Background(), ""))
	assert.Equal(t, MsgOAuthFailed, m.ErrorMessage())
}

func TestLogout(t *testing.T) {
	m, b, store := newLiveManager(t, "")
	b.AddUser("user@example.com", "user1", "password123")
	require.NoError(t, m.Login(context.Background(), "user@example.com", "password123"))
	tok := storedToken(t, store)

	m.Logout(context.Background())

	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Nil(t, m.User())
	assert.Empty(t, storedToken(t, store))

	m.Wait()
	assert.False(t, b.TokenValid(tok))
}

func TestLogout_ServerFailureIsIgnored(t *testing.T) {
	auth := &mockAuth{}
	auth.On("Logout", mock.Anything, "old").Return(errors.New("boom"))
	store := token.NewMemoryStore("old")
	m := NewManager(auth, store, nil)

	m.Logout(context.Background())
	m.Wait()

	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Empty(t, storedToken(t, store))
	auth.AssertExpectations(t)
}

func TestLogout_WithoutTokenSkipsServer(t *testing.T) {
	auth := &mockAuth{}
	m := NewManager(auth, token.NewMemoryStore(""), nil)

	m.Logout(context.Background())
	m.Wait()

	auth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestLogout_CancelledContextStillReachesServer(t *testing.T) {
	auth := &mockAuth{}
	auth.On("Logout", mock.Anything, "old").Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		assert.NoError(t, ctx.Err())
	}).Return(nil)
	m := NewManager(auth, token.NewMemoryStore("old"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	m.Logout(ctx)
	cancel()
	m.Wait()

	auth.AssertExpectations(t)
}

func TestClearError(t *testing.T) {
	auth := &mockAuth{}
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &api.Error{Status: 401, Message: "Incorrect email or password", Kind: api.ErrUnauthenticated})
	m := NewManager(auth, token.NewMemoryStore(""), nil)

	m.ClearError()
	assert.Equal(t, StatusUnauthenticated, m.State().Status)

	require.Error(t, m.Login(context.Background(), "a@b.c", "x"))
	require.Equal(t, StatusAuthFailed, m.State().Status)

	m.ClearError()
	assert.Equal(t, StatusUnauthenticated, m.State().Status)
	assert.Empty(t, m.ErrorMessage())
}

func TestClearError_KeepsAuthenticated(t *testing.T) {
	auth := &mockAuth{}
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.AuthResponse{AccessToken: "t", User: &models.User{ID: 1}}, nil)
	m := NewManager(auth, token.NewMemoryStore(""), nil)
	require.NoError(t, m.Login(context.Background(), "a@b.c", "password123"))

	m.ClearError()
	assert.True(t, m.IsAuthenticated())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := NewManager(&mockAuth{}, token.NewMemoryStore(""), nil)
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.observe)

	m.Initialize(context.Background())
	unsubscribe()
	m.Logout(context.Background())

	assert.Equal(t, []Status{StatusAuthenticating, StatusUnauthenticated}, rec.statuses())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	store := token.NewMemoryStore(signedJWT(t, exp))
	m := NewManager(&mockAuth{}, store, nil)

	got, ok := m.TokenExpiry(context.Background())
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, store.SaveToken(context.Background(), "opaque-token"))
	_, ok = m.TokenExpiry(context.Background())
	assert.False(t, ok)

	require.NoError(t, store.ClearToken(context.Background()))
	_, ok = m.TokenExpiry(context.Background())
	assert.False(t, ok)
}

func TestTokenRejected(t *testing.T) {
	b := apitest.New()
	t.Cleanup(b.Close)
	b.AddUser("user@example.com", "user1", "password123")

	store := token.NewMemoryStore("")
	var m *Manager
	c, err := api.New(b.URL(), store, api.WithRejectHook(func(ctx context.Context) { m.TokenRejected(ctx) }))
	require.NoError(t, err)
	m = NewManager(api.NewAuthAPI(c), store, nil)

	require.NoError(t, m.Login(context.Background(), "user@example.com", "password123"))
	require.True(t, m.IsAuthenticated())

	// The server forgets the token, e.g. after expiry.
	b.Fail("GET", "/profiles/me", 401, `{"detail": "Token expired"}`)
	_, err = api.NewProfileAPI(c).MyProfile(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthenticated)

	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.ErrorMessage())
	assert.Empty(t, storedToken(t, store))
}
