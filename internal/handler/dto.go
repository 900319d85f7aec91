package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

// userDTO is the outward account shape. Secrets never leave the
// process; only the has-flags do.
type userDTO struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"fullName"`
	Image              *string   `json:"image"`
	Email              string    `json:"email"`
	Mobile             *string   `json:"mobile"`
	Address            *string   `json:"address"`
	Nationality        *string   `json:"nationality"`
	DOB                *string   `json:"dob"`
	Gender             *string   `json:"gender"`
	Role               string    `json:"role"`
	AccountNumber      string    `json:"accountNumber"`
	Balance            int64     `json:"balance"`
	Status             string    `json:"status"`
	CodeDescription    *string   `json:"codeDescription"`
	HasTransactionCode bool      `json:"hasTransactionCode"`
	HasPin             bool      `json:"hasPin"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toUserDTO(u *domain.User) userDTO {
	var gender *string
	if u.Gender != nil {
		g := string(*u.Gender)
		gender = &g
	}
	return userDTO{
		ID:                 u.ID,
		FullName:           u.FullName,
		Image:              u.Image,
		Email:              u.Email,
		Mobile:             u.Mobile,
		Address:            u.Address,
		Nationality:        u.Nationality,
		DOB:                u.DOB,
		Gender:             gender,
		Role:               string(u.Role),
		AccountNumber:      u.AccountNumber,
		Balance:            u.Balance,
		Status:             string(u.Status),
		CodeDescription:    u.CodeDescription,
		HasTransactionCode: u.HasTransactionCode(),
		HasPin:             u.HasPIN(),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

type transactionDTO struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Amount        int64     `json:"amount"`
	Type          string    `json:"type"`
	Method        *string   `json:"method,omitempty"`
	Status        string    `json:"status"`
	AccountNumber *string   `json:"accountNumber,omitempty"`
	BankName      *string   `json:"bankName,omitempty"`
	AccountName   *string   `json:"accountName,omitempty"`
	IBAN          *string   `json:"iban,omitempty"`
	SwiftCode     *string   `json:"swiftCode,omitempty"`
	Receipt       *string   `json:"receipt,omitempty"`
	Reason        *string   `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	var method *string
	if t.Method != nil {
		m := string(*t.Method)
		method = &m
	}
	return transactionDTO{
		ID:            t.ID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Method:        method,
		Status:        string(t.Status),
		AccountNumber: t.AccountNumber,
		BankName:      t.BankName,
		AccountName:   t.AccountName,
		IBAN:          t.IBAN,
		SwiftCode:     t.SwiftCode,
		Receipt:       t.Receipt,
		Reason:        t.Reason,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionDTOs(ts []domain.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, len(ts))
	for i := range ts {
		dtos[i] = toTransactionDTO(&ts[i])
	}
	return dtos
}

type seatDTO struct {
	ID         uuid.UUID `json:"id"`
	FlightID   string    `json:"flightId"`
	SeatNumber string    `json:"seatNumber"`
	Class      string    `json:"class"`
}

type bookingDTO struct {
	ID            uuid.UUID       `json:"id"`
	BookingRef    string          `json:"bookingId"`
	UserID        uuid.UUID       `json:"userId"`
	FlightID      string          `json:"flightId"`
	Class         string          `json:"class"`
	Seats         []seatDTO       `json:"seats,omitempty"`
	Travellers    json.RawMessage `json:"travellers,omitempty"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toBookingDTO(b *domain.Booking, seats []domain.Seat) bookingDTO {
	dto := bookingDTO{
		ID:            b.ID,
		BookingRef:    b.BookingRef,
		UserID:        b.UserID,
		FlightID:      b.FlightID,
		Class:         b.Class,
		Travellers:    b.Travellers,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt,
	}
	for _, s := range seats {
		dto.Seats = append(dto.Seats, seatDTO{
			ID:         s.ID,
			FlightID:   s.FlightID,
			SeatNumber: s.SeatNumber,
			Class:      s.Class,
		})
	}
	return dto
}

type messageDTO struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender"`
	ReceiverID uuid.UUID `json:"receiver"`
	Message    string    `json:"message"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toMessageDTO(m *domain.Message) messageDTO {
	return messageDTO{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Body,
		IsAdmin:    m.FromAdmin,
		CreatedAt:  m.CreatedAt,
	}
}
