package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret",
		Issuer:   "motoyard",
		Audience: "motoyard-api",
		TTL:      15 * time.Minute,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, expiresAt, err := GenerateToken(cfg, 42, "a@x.com", "Ana")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(cfg.TTL), expiresAt, time.Minute)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID())
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "motoyard", claims.Issuer)
	assert.NotEmpty(t, claims.ID) // jti
}

func TestTokenUniqueID(t *testing.T) {
	cfg := testConfig()
	t1, _, err := GenerateToken(cfg, 1, "a@x.com", "Ana")
	require.NoError(t, err)
	t2, _, err := GenerateToken(cfg, 1, "a@x.com", "Ana")
	require.NoError(t, err)

	c1, err := ParseToken(cfg, t1)
	require.NoError(t, err)
	c2, err := ParseToken(cfg, t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestParseRejectsWrongKey(t *testing.T) {
	cfg := testConfig()
	token, _, err := GenerateToken(cfg, 1, "a@x.com", "Ana")
	require.NoError(t, err)

	bad := cfg
	bad.Secret = "other-secret"
	_, err = ParseToken(bad, token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := testConfig()
	expired := Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.Error(t, err)
}

func TestParseRejectsWrongAudience(t *testing.T) {
	cfg := testConfig()
	token, _, err := GenerateToken(cfg, 1, "a@x.com", "Ana")
	require.NoError(t, err)

	other := cfg
	other.Audience = "some-other-api"
	_, err = ParseToken(other, token)
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = ""
	_, _, err := GenerateToken(cfg, 1, "a@x.com", "Ana")
	assert.Error(t, err)
}
