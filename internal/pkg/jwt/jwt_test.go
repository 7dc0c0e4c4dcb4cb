package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign("user-1", "user@example.com", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Verify(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, issuer, claims.Issuer)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := Sign("user-1", "user@example.com", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = Verify(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign("user-1", "", secret, -time.Minute)
	require.NoError(t, err)

	_, err = Verify(token, secret)
	require.Error(t, err)
}

func TestVerifyForeignIssuer(t *testing.T) {
	secret := []byte("test-secret")
	foreign := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(token, secret)
	require.Error(t, err)
}

func TestVerifyMissingUserID(t *testing.T) {
	secret := []byte("test-secret")
	anonymous := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := anonymous.SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(token, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify("not-a-token", []byte("test-secret"))
	require.Error(t, err)
}
