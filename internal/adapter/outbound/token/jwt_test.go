package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now time.Time) *jwtManager {
	m := NewJWTManager(&Config{Secret: "test-secret", Issuer: "contoso-university", Expiry: time.Hour}).(*jwtManager)
	m.now = func() time.Time { return now }
	return m
}

func TestJWTManager_IssueAndParse(t *testing.T) {
	now := time.Now()
	m := newTestManager(now)

	signed, err := m.Issue("registrar", []string{"admin"})
	require.NoError(t, err)

	p, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "registrar", p.Subject)
	assert.True(t, p.HasRole("admin"))
	assert.False(t, p.HasRole("student"))
}

func TestJWTManager_Parse_Rejects(t *testing.T) {
	now := time.Now()
	m := newTestManager(now)

	signed, err := m.Issue("registrar", nil)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestManager(now.Add(2 * time.Hour))
		_, err := later.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager(&Config{Secret: "other", Issuer: "contoso-university", Expiry: time.Hour})
		_, err := other.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTManager(&Config{Secret: "test-secret", Issuer: "elsewhere", Expiry: time.Hour})
		_, err := other.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "intruder",
			"iss": "contoso-university",
			"exp": now.Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTManager_RequiresSecret(t *testing.T) {
	m := NewJWTManager(&Config{Issuer: "contoso-university", Expiry: time.Minute})

	_, err := m.Issue("a", nil)
	assert.ErrorIs(t, err, ErrMissingSecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Roles: []string{"Administrator"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			Issuer:    "contoso-university",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte{})
	require.NoError(t, err)

	p, err := m.Parse(forged)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
