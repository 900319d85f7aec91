package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "Pending"
	UserStatusActive  UserStatus = "Active"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// TransactionCode is the time-limited shared secret that authorizes
// outbound transfers. A nil code on the user means "not configured",
// which is a distinct failure from "expired" and from "wrong value".
type TransactionCode struct {
	Hash      string
	ExpiresAt *time.Time
}

func (c *TransactionCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

type User struct {
	ID              uuid.UUID
	FullName        string
	Image           *string
	Email           string
	PasswordHash    string
	Mobile          *string
	Address         *string
	Nationality     *string
	DOB             *string
	Gender          *Gender
	Role            Role
	AccountNumber   string
	Balance         int64
	Status          UserStatus
	TransactionCode *TransactionCode
	CodeDescription *string
	PINHash         *string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileUpdate holds the fields a user may change on their own record.
type ProfileUpdate struct {
	Email    *string
	FullName *string
	Image    *string
}

// AdminUserUpdate is the closed set of fields an admin may patch.
// Anything not listed here (password, balance, secrets, timestamps)
// cannot be reached through the admin update path.
type AdminUserUpdate struct {
	FullName      *string
	Image         *string
	Email         *string
	Mobile        *string
	Address       *string
	Nationality   *string
	DOB           *string
	Gender        *Gender
	Role          *Role
	AccountNumber *string
	Status        *UserStatus
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPIN() bool {
	return u.PINHash != nil && *u.PINHash != ""
}

func (u *User) HasTransactionCode() bool {
	return u.TransactionCode != nil && u.TransactionCode.Hash != ""
}
