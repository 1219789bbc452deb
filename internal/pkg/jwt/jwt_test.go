package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseHS256(t *testing.T) {
	v, err := NewVerifier("secret", "", "")
	require.NoError(t, err)

	token, err := Sign("secret", "user_123", "a@b.c", time.Minute)
	require.NoError(t, err)

	claims, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.Subject)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestParseRejects(t *testing.T) {
	v, err := NewVerifier("secret", "", "")
	require.NoError(t, err)

	wrong, err := Sign("other", "user_123", "", time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(wrong)
	assert.Error(t, err)

	expired, err := Sign("secret", "user_123", "", -time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	assert.Error(t, err)

	noSubject, err := Sign("secret", "", "", time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(noSubject)
	assert.Error(t, err)

	_, err = v.Parse("garbage")
	assert.Error(t, err)
}

func TestRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewRSAVerifier(&key.PublicKey, "https://clerk.example")

	claims := Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		Subject:   "user_rsa",
		Issuer:    "https://clerk.example",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	got, err := v.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user_rsa", got.Subject)

	// HS256 tokens must not be accepted by an RSA verifier.
	hs, err := Sign("secret", "user_rsa", "", time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(hs)
	assert.Error(t, err)
}

func TestNewVerifierRequiresKeyMaterial(t *testing.T) {
	_, err := NewVerifier("", "", "")
	assert.Error(t, err)
}
