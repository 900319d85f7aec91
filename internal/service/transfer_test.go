package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

func hashSecret(t *testing.T, value string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestVerifyTransferAuth(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	codeHash := hashSecret(t, "code-1234")
	pinHash := hashSecret(t, "5678")

	sender := func(mutate func(u *domain.User)) *domain.User {
		u := &domain.User{
			ID:              uuid.New(),
			TransactionCode: &domain.TransactionCode{Hash: codeHash, ExpiresAt: &future},
			PINHash:         &pinHash,
		}
		if mutate != nil {
			mutate(u)
		}
		return u
	}

	tests := []struct {
		name    string
		sender  *domain.User
		code    string
		pin     string
		wantErr error
	}{
		{
			name:   "valid code and pin",
			sender: sender(nil),
			code:   "code-1234",
			pin:    "5678",
		},
		{
			name:    "no code configured",
			sender:  sender(func(u *domain.User) { u.TransactionCode = nil }),
			code:    "code-1234",
			pin:     "5678",
			wantErr: domain.ErrCodeNotSet,
		},
		{
			// Expiry is checked before the code value: even the right
			// code is rejected once it has lapsed.
			name:    "expired code with correct value",
			sender:  sender(func(u *domain.User) { u.TransactionCode.ExpiresAt = &past }),
			code:    "code-1234",
			pin:     "5678",
			wantErr: domain.ErrCodeExpired,
		},
		{
			name:    "wrong code",
			sender:  sender(nil),
			code:    "code-9999",
			pin:     "5678",
			wantErr: domain.ErrCodeMismatch,
		},
		{
			name:   "code without expiry never expires",
			sender: sender(func(u *domain.User) { u.TransactionCode.ExpiresAt = nil }),
			code:   "code-1234",
			pin:    "5678",
		},
		{
			name:    "no pin configured",
			sender:  sender(func(u *domain.User) { u.PINHash = nil }),
			code:    "code-1234",
			pin:     "5678",
			wantErr: domain.ErrPINNotSet,
		},
		{
			name:    "pin missing from request",
			sender:  sender(nil),
			code:    "code-1234",
			pin:     "",
			wantErr: domain.ErrPINRequired,
		},
		{
			name:    "wrong pin",
			sender:  sender(nil),
			code:    "code-1234",
			pin:     "0000",
			wantErr: domain.ErrPINMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := verifyTransferAuth(tc.sender, tc.code, tc.pin, now)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
