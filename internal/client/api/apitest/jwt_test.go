package apitest

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := generateToken(42, secret, time.Hour)
	require.NoError(t, err)

	got, err := userIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := generateToken(1, secret, -time.Second)
	require.NoError(t, err)

	_, err = userIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := generateToken(2, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = userIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = userIDFromToken("not-a-jwt", []byte("right-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGenerateToken_Unique(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	a, err := generateToken(1, secret, time.Hour)
	require.NoError(t, err)
	b, err := generateToken(1, secret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBackend_TokenLifecycle(t *testing.T) {
	b := New()
	t.Cleanup(b.Close)
	u := b.AddUser("user@example.com", "user1", "password123")

	valid := b.IssueToken(u.ID)
	expired := b.IssueTokenTTL(u.ID, -time.Minute)

	assert.True(t, b.TokenValid(valid))
	assert.False(t, b.TokenValid(expired))
	assert.False(t, b.TokenValid("forged"))

	req, err := http.NewRequest(http.MethodGet, b.URL()+"/users/me", nil)
	require.NoError(t, err)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+expired)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, b.URL()+"/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+valid)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, b.TokenValid(valid), "logout revokes the token")
}
