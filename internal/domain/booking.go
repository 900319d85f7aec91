package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Seat struct {
	ID         uuid.UUID
	FlightID   string
	SeatNumber string
	Class      string
	CreatedAt  time.Time
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Booking owns its seat ids; Payment references the booking and nothing
// else. Status and PaymentStatus advance independently.
type Booking struct {
	ID            uuid.UUID
	BookingRef    string
	UserID        uuid.UUID
	FlightID      string
	Class         string
	SeatIDs       []uuid.UUID
	Travellers    json.RawMessage
	Status        BookingStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

type Payment struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	UserID         uuid.UUID
	Amount         int64
	Currency       string
	PaymentMethod  string
	TransactionRef string
	Status         PaymentStatus
	ConfirmEmail   *string
	CreatedAt      time.Time
}
