package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds an HS256-signed JWT with the given claims. Signature
// validity is irrelevant here; claim decoding never verifies.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestDecodeIdentity(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{
		"sub":   "auth0|12345",
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
		"exp":   exp.Unix(),
	})

	id, err := DecodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth0|12345", id.Subject)
	assert.Equal(t, "Ada Lovelace", id.Name)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.True(t, id.Expiry.Equal(exp))
}

func TestDecodeIdentity_Garbage(t *testing.T) {
	_, err := DecodeIdentity("not-a-jwt")
	assert.Error(t, err)
}

func TestIdentity_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&Identity{Subject: "s", Name: "Ada", Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "a@b.c", (&Identity{Subject: "s", Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "s", (&Identity{Subject: "s"}).DisplayName())
}

func TestTokens_Valid(t *testing.T) {
	now := time.Now()

	fresh := &Tokens{IDToken: signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})}
	assert.True(t, fresh.Valid(now))

	expired := &Tokens{IDToken: signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})}
	assert.False(t, expired.Valid(now))

	// Within the expiry slack window counts as expired.
	closeCall := &Tokens{IDToken: signedToken(t, jwt.MapClaims{"exp": now.Add(10 * time.Second).Unix()})}
	assert.False(t, closeCall.Valid(now))

	noExp := &Tokens{IDToken: signedToken(t, jwt.MapClaims{"sub": "x"})}
	assert.False(t, noExp.Valid(now))

	var nilTokens *Tokens
	assert.False(t, nilTokens.Valid(now))
	assert.False(t, (&Tokens{}).Valid(now))
}

func TestConfig_Issuer(t *testing.T) {
	assert.Equal(t, "https://benchify.us.auth0.com/", Config{Domain: "benchify.us.auth0.com"}.Issuer())

	// Full URLs pass through (used by tests against fake providers).
	assert.Equal(t, "http://127.0.0.1:9999/", Config{Domain: "http://127.0.0.1:9999"}.Issuer())
	assert.Equal(t, "http://127.0.0.1:9999/", Config{Domain: "http://127.0.0.1:9999/"}.Issuer())
}
