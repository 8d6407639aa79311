package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DisplayName(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "", nilUser.DisplayName())
	assert.Equal(t, "u1", (&User{Username: "u1"}).DisplayName())
	assert.Equal(t, "Ada", (&User{Username: "u1", FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "Ada Lovelace", (&User{Username: "u1", FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
}

func TestUser_DecodesBareDate(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"email":"user@example.com","username":"u1","is_active":true,"created_at":"2024-01-01"}`), &u))
	assert.Equal(t, User{ID: 1, Email: "user@example.com", Username: "u1", IsActive: true, CreatedAt: "2024-01-01"}, u)
}

func TestDefaultProfileSummary(t *testing.T) {
	s := DefaultProfileSummary()
	assert.False(t, s.ProfileCompleted)
	assert.Zero(t, s.CompletionPercentage)
	assert.NotEmpty(t, s.MissingFields)
	assert.Equal(t, DefaultMissingFields, s.MissingFields)

	s.MissingFields[0] = "changed"
	assert.Equal(t, "personal_info", DefaultProfileSummary().MissingFields[0])
}

func TestScholarship_PotentialAward(t *testing.T) {
	assert.Equal(t, 5000.0, Scholarship{AmountMin: 1000, AmountMax: 5000}.PotentialAward())
	assert.Equal(t, 1000.0, Scholarship{AmountMin: 1000}.PotentialAward())
	assert.Zero(t, Scholarship{}.PotentialAward())
}
