package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secreto", "albaranes", "u-1", 5*time.Minute)
	require.NoError(t, err)

	userID, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", "albaranes", "u-1", 5*time.Minute)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
	assert.False(t, Expired(err))
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate("secreto", "albaranes", "u-1", -time.Minute)
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	require.Error(t, err)
	assert.True(t, Expired(err))
}

func TestParse_RechazaOtroAlgoritmo(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestParse_SinCaducidad(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
	}).SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := Generate("", "albaranes", "u-1", time.Minute)
	assert.Error(t, err)
}
