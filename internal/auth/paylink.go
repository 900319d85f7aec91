package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type paymentLinkClaims struct {
	jwt.RegisteredClaims
	PaymentID string `json:"id"`
}

// SignPaymentLink issues the opaque token embedded in a payment-link
// URL. It binds to the payment record's identity only; the payment
// front end verifies it when the link is opened.
func SignPaymentLink(paymentID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := paymentLinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		PaymentID: paymentID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("SignPaymentLink: %w", err)
	}
	return signed, nil
}

// VerifyPaymentLink is the inverse of SignPaymentLink. Exposed for the
// payment front end's callback service and for tests.
func VerifyPaymentLink(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &paymentLinkClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("VerifyPaymentLink: %w", err)
	}

	pc, ok := token.Claims.(*paymentLinkClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("VerifyPaymentLink: invalid token claims")
	}

	paymentID, err := uuid.Parse(pc.PaymentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("VerifyPaymentLink: invalid payment id in token: %w", err)
	}
	return paymentID, nil
}
