package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyPaymentLink(t *testing.T) {
	paymentID := uuid.New()

	token, err := SignPaymentLink(paymentID, testSecret, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifyPaymentLink(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, paymentID, got)
}

func TestVerifyPaymentLink_Expired(t *testing.T) {
	token, err := SignPaymentLink(uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyPaymentLink(token, testSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyPaymentLink_WrongSecret(t *testing.T) {
	token, err := SignPaymentLink(uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyPaymentLink(token, "other-secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerifyPaymentLink_RejectsAuthToken(t *testing.T) {
	// An auth token carries no "id" claim, so it cannot stand in for a
	// payment link even though it is signed with the same secret.
	token, err := GenerateToken(uuid.New(), "user@test.com", "User", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyPaymentLink(token, testSecret)
	require.Error(t, err)
}
