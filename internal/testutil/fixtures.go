package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

var accountNumberSeq int64 = 1_000_000_000

// SeedUser inserts an Active user with the given balance. The password
// is always "password123"; bcrypt.MinCost keeps test startup fast.
func SeedUser(t *testing.T, db *sql.DB, email, fullName string, balance int64) *domain.User {
	t.Helper()
	return seedUser(t, db, email, fullName, balance, domain.RoleUser)
}

func SeedAdmin(t *testing.T, db *sql.DB, email, fullName string) *domain.User {
	t.Helper()
	return seedUser(t, db, email, fullName, 0, domain.RoleAdmin)
}

func seedUser(t *testing.T, db *sql.DB, email, fullName string, balance int64, role domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	accountNumberSeq++
	now := time.Now().UTC()
	u := &domain.User{
		ID:            uuid.New(),
		FullName:      fullName,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		AccountNumber: fmt.Sprintf("%d", accountNumberSeq),
		Balance:       balance,
		Status:        domain.UserStatusActive,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = db.Exec(
		`INSERT INTO users (id, full_name, email, password_hash, role, account_number,
			balance, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Role, u.AccountNumber,
		u.Balance, u.Status, u.Version, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SetTransactionCode hashes and stores a transaction code on the user.
// A nil expiresAt means the code never expires.
func SetTransactionCode(t *testing.T, db *sql.DB, userID uuid.UUID, code string, expiresAt *time.Time) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash transaction code: %v", err)
	}
	_, err = db.Exec(
		`UPDATE users SET transaction_code_hash = $1, transaction_code_expires_at = $2 WHERE id = $3`,
		string(hash), expiresAt, userID,
	)
	if err != nil {
		t.Fatalf("set transaction code: %v", err)
	}
}

func SetPIN(t *testing.T, db *sql.DB, userID uuid.UUID, pin string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	_, err = db.Exec(`UPDATE users SET pin_hash = $1 WHERE id = $2`, string(hash), userID)
	if err != nil {
		t.Fatalf("set pin: %v", err)
	}
}

func GetUserBalance(t *testing.T, db *sql.DB, userID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	if err := db.QueryRow(`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		t.Fatalf("get user balance %s: %v", userID, err)
	}
	return balance
}

func GetTransaction(t *testing.T, db *sql.DB, id uuid.UUID) (status string, reason *string) {
	t.Helper()

	if err := db.QueryRow(`SELECT status, reason FROM transactions WHERE id = $1`, id).Scan(&status, &reason); err != nil {
		t.Fatalf("get transaction %s: %v", id, err)
	}
	return status, reason
}

func CountTransactions(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		t.Fatalf("count transactions for %s: %v", userID, err)
	}
	return count
}

func CountSeats(t *testing.T, db *sql.DB, flightID string) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM seats WHERE flight_id = $1`, flightID).Scan(&count); err != nil {
		t.Fatalf("count seats for %s: %v", flightID, err)
	}
	return count
}
