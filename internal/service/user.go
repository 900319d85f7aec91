package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

type RegisterRequest struct {
	FullName string
	Email    string
	Password string
	Role     domain.Role
}

type UserService struct {
	users userRepo
}

func NewUserService(users userRepo) *UserService {
	return &UserService{users: users}
}

// Register creates a Pending account with a zero balance and a fresh
// 10-digit account number.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrEmailTaken)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}

	accountNumber, err := generateAccountNumber()
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New(),
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          role,
		AccountNumber: accountNumber,
		Balance:       0,
		Status:        domain.UserStatusPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// UpdateProfile applies the self-service allow-list and optionally sets
// a new transfer PIN.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate, newPIN string) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("UpdateProfile: %w", asUserNotFound(err))
	}

	if newPIN != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("UpdateProfile: hash pin: %w", err)
		}
		if err := s.users.SetPIN(ctx, userID, string(hash)); err != nil {
			return nil, fmt.Errorf("UpdateProfile: %w", err)
		}
		pinHash := string(hash)
		user.PINHash = &pinHash
	}
	return user, nil
}

// SetTransactionCode stores a freshly hashed transaction code with its
// expiry. The previous code, if any, is replaced.
func (s *UserService) SetTransactionCode(ctx context.Context, userID uuid.UUID, code string, expiresAt *time.Time, description string) error {
	if code == "" {
		return fmt.Errorf("SetTransactionCode: %w", domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("SetTransactionCode: hash code: %w", err)
	}

	var desc *string
	if description != "" {
		desc = &description
	}
	if err := s.users.SetTransactionCode(ctx, userID, string(hash), expiresAt, desc); err != nil {
		return fmt.Errorf("SetTransactionCode: %w", err)
	}

	logging.FromContext(ctx).Info("transaction code set", "user_id", userID)
	return nil
}

// ResetPIN clears the target user's transfer PIN. Admin only; callers
// enforce the role.
func (s *UserService) ResetPIN(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if err := s.users.ClearPIN(ctx, userID); err != nil {
		return nil, fmt.Errorf("ResetPIN: %w", asUserNotFound(err))
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ResetPIN: %w", err)
	}

	logging.FromContext(ctx).Info("transfer pin reset", "user_id", userID)
	return user, nil
}

func (s *UserService) AdminUpdate(ctx context.Context, userID uuid.UUID, upd domain.AdminUserUpdate) (*domain.User, error) {
	user, err := s.users.AdminUpdate(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("AdminUpdate: %w", asUserNotFound(err))
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	users, err := s.users.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

func generateAccountNumber() (string, error) {
	// 10 digits, leading digit non-zero.
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1_000_000_000), nil
}
