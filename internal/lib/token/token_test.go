package token

import (
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now time.Time) *Manager {
	m := NewManager(config.AuthConfig{SecretKey: "0123456789abcdef0123", TokenTTL: time.Hour})
	m.now = func() time.Time { return now }
	return m
}

func testUser() *model.User {
	return &model.User{
		Base:     model.Base{ID: uuid.New()},
		Username: "seller1",
		Role:     model.RoleSeller,
	}
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(now)
	user := testUser()

	signed, expiresAt, err := m.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{UserID: user.ID, Username: "seller1", Role: model.RoleSeller}, claims.Actor())
	assert.Equal(t, config.DefaultTokenIssuer, claims.Issuer)
}

func TestParseExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(now)

	signed, _, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.Parse(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseWrongSecret(t *testing.T) {
	now := time.Now()
	signed, _, err := newTestManager(now).Issue(testUser())
	require.NoError(t, err)

	other := NewManager(config.AuthConfig{SecretKey: "another-secret-key-value"})
	_, err = other.Parse(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.DefaultTokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager(time.Now()).Parse(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsUnknownRole(t *testing.T) {
	m := newTestManager(time.Now())
	user := testUser()
	user.Role = "root"

	signed, _, err := m.Issue(user)
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseGarbage(t *testing.T) {
	_, err := newTestManager(time.Now()).Parse("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
