package service_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/repository"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
	"github.com/kelechi-obi/flyzone-backend/internal/testutil"
)

type services struct {
	users      *service.UserService
	transfers  *service.TransferService
	deposits   *service.DepositService
	settle     *service.SettlementService
	funds      *service.AdminFundsService
	profile    *service.ProfileService
	bookings   *service.BookingService
	support    *service.SupportService
	ledger     *service.LedgerService
	settleWith func(recredit bool) *service.SettlementService
}

func setupServices(t *testing.T, pool *sql.DB) services {
	t.Helper()

	db := repository.NewDB(pool)
	users := repository.NewUserRepository(pool)
	transactions := repository.NewTransactionRepository(pool)
	seats := repository.NewSeatRepository(pool)
	bookings := repository.NewBookingRepository(pool)
	payments := repository.NewPaymentRepository(pool)
	messages := repository.NewMessageRepository(pool)

	return services{
		users:     service.NewUserService(users),
		transfers: service.NewTransferService(users, transactions, db),
		deposits:  service.NewDepositService(users, transactions, db),
		settle:    service.NewSettlementService(users, transactions, db, false),
		funds:     service.NewAdminFundsService(users, transactions, db),
		profile:   service.NewProfileService(users, transactions),
		bookings: service.NewBookingService(seats, bookings, payments, db,
			"test-secret", "https://flyzoneairlines.com", 7*24*time.Hour),
		support: service.NewSupportService(messages),
		ledger:  service.NewLedgerService(transactions),
		settleWith: func(recredit bool) *service.SettlementService {
			return service.NewSettlementService(users, transactions, db, recredit)
		},
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	_, err := svc.users.Register(ctx, service.RegisterRequest{
		FullName: "First", Email: "dup@test.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.users.Register(ctx, service.RegisterRequest{
		FullName: "Second", Email: "dup@test.com", Password: "password123",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateTransfer_DebitsAtCreation(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	sender := testutil.SeedUser(t, pool, "sender@test.com", "Sender", 10_000)

	entry, err := svc.transfers.CreateTransfer(ctx, service.TransferRequest{
		UserID: sender.ID,
		Amount: 3_000,
		Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionStatusPending, entry.Status)
	assert.Equal(t, domain.TransactionTypeTransfer, entry.Type)
	assert.Equal(t, int64(3_000), entry.Amount)

	// The debit happens when the transfer is created, not at approval.
	assert.Equal(t, int64(7_000), testutil.GetUserBalance(t, pool, sender.ID))
}

func TestCreateTransfer_InsufficientFunds(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	sender := testutil.SeedUser(t, pool, "poor@test.com", "Poor", 100)

	_, err := svc.transfers.CreateTransfer(ctx, service.TransferRequest{
		UserID: sender.ID,
		Amount: 5_000,
		Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(100), testutil.GetUserBalance(t, pool, sender.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, pool, sender.ID))
}

func TestCreateTransfer_ConcurrentDoubleSpend(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	// Balance covers one transfer only; the row lock must serialize them.
	sender := testutil.SeedUser(t, pool, "race@test.com", "Race", 5_000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.transfers.CreateTransfer(ctx, service.TransferRequest{
				UserID: sender.ID,
				Amount: 4_000,
				Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1_000), testutil.GetUserBalance(t, pool, sender.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, pool, sender.ID))
}

func TestCreateTransferWithCode(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	sender := testutil.SeedUser(t, pool, "coded@test.com", "Coded", 10_000)
	future := time.Now().UTC().Add(24 * time.Hour)
	testutil.SetTransactionCode(t, pool, sender.ID, "code-1234", &future)
	testutil.SetPIN(t, pool, sender.ID, "5678")

	req := service.TransferRequest{
		UserID: sender.ID,
		Amount: 2_000,
		Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
		Code:   "code-1234",
		PIN:    "5678",
	}

	entry, err := svc.transfers.CreateTransferWithCode(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, entry.Status)
	assert.Equal(t, int64(8_000), testutil.GetUserBalance(t, pool, sender.ID))

	// A bad pin leaves the balance untouched.
	req.PIN = "0000"
	_, err = svc.transfers.CreateTransferWithCode(ctx, req)
	require.ErrorIs(t, err, domain.ErrPINMismatch)
	assert.Equal(t, int64(8_000), testutil.GetUserBalance(t, pool, sender.ID))
}

func TestApproveDeposit_CreditsBalance(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	user := testutil.SeedUser(t, pool, "depositor@test.com", "Depositor", 1_000)

	entry, err := svc.deposits.CreateDeposit(ctx, service.DepositRequest{
		UserID: user.ID, Amount: 4_000, Method: domain.DepositMethodBank,
	})
	require.NoError(t, err)

	// No money moves while the deposit is pending.
	assert.Equal(t, int64(1_000), testutil.GetUserBalance(t, pool, user.ID))

	approved, err := svc.settle.Approve(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, approved.Status)
	assert.Equal(t, int64(5_000), testutil.GetUserBalance(t, pool, user.ID))

	// A settled entry cannot transition again.
	_, err = svc.settle.Approve(ctx, entry.ID)
	require.ErrorIs(t, err, domain.ErrNotPending)
	_, err = svc.settle.Decline(ctx, entry.ID, "too late")
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestDecline_RequiresReasonAndKeepsDebit(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	sender := testutil.SeedUser(t, pool, "declined@test.com", "Declined", 10_000)

	entry, err := svc.transfers.CreateTransfer(ctx, service.TransferRequest{
		UserID: sender.ID,
		Amount: 3_000,
		Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
	})
	require.NoError(t, err)

	_, err = svc.settle.Decline(ctx, entry.ID, "   ")
	require.ErrorIs(t, err, domain.ErrReasonRequired)

	declined, err := svc.settle.Decline(ctx, entry.ID, "Suspicious destination account")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusDeclined, declined.Status)

	status, reason := testutil.GetTransaction(t, pool, entry.ID)
	assert.Equal(t, "Declined", status)
	require.NotNil(t, reason)
	assert.Equal(t, "Suspicious destination account", *reason)

	// Default behavior keeps the debit in place after a decline.
	assert.Equal(t, int64(7_000), testutil.GetUserBalance(t, pool, sender.ID))
}

func TestDecline_RecreditsTransferWhenEnabled(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	sender := testutil.SeedUser(t, pool, "recredit@test.com", "Recredit", 10_000)

	entry, err := svc.transfers.CreateTransfer(ctx, service.TransferRequest{
		UserID: sender.ID,
		Amount: 3_000,
		Bank:   service.BankDetails{AccountNumber: "12345678", BankName: "First Bank"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7_000), testutil.GetUserBalance(t, pool, sender.ID))

	_, err = svc.settleWith(true).Decline(ctx, entry.ID, "Payout provider rejected")
	require.NoError(t, err)

	assert.Equal(t, int64(10_000), testutil.GetUserBalance(t, pool, sender.ID))
}

func TestAdminFundsFlow(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	user := testutil.SeedUser(t, pool, "funded@test.com", "Funded", 0)

	balance, err := svc.funds.Fund(ctx, user.ID, 9_000)
	require.NoError(t, err)
	assert.Equal(t, int64(9_000), balance)

	balance, err = svc.funds.Debit(ctx, user.ID, 2_000, "Chargeback adjustment")
	require.NoError(t, err)
	assert.Equal(t, int64(7_000), balance)

	_, err = svc.funds.Debit(ctx, user.ID, 50_000, "too much")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(7_000), testutil.GetUserBalance(t, pool, user.ID))

	// Both adjustments land in the ledger already settled.
	entries, err := svc.ledger.ListForUser(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, domain.TransactionStatusCompleted, e.Status)
	}
	assert.Equal(t, domain.TransactionTypeWithdrawal, entries[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, entries[1].Type)
}

func TestGetProfile_MonthlyStats(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	user := testutil.SeedUser(t, pool, "stats@test.com", "Stats", 0)

	// Admin funding writes Completed Deposit entries dated now.
	_, err := svc.funds.Fund(ctx, user.ID, 6_000)
	require.NoError(t, err)
	_, err = svc.funds.Fund(ctx, user.ID, 4_000)
	require.NoError(t, err)

	profile, err := svc.profile.GetProfile(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(10_000), profile.CurrentMonth.Deposits)
	assert.Equal(t, int64(0), profile.CurrentMonth.Transfers)
	assert.Equal(t, int64(0), profile.LastMonth.Deposits)
	assert.Equal(t, "100.00", profile.Increase.Deposits)
	assert.Equal(t, "0.00", profile.Increase.Transfers)
}

func TestGeneratePaymentLink_SeatConflict(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	user := testutil.SeedUser(t, pool, "flyer@test.com", "Flyer", 0)

	link, err := svc.bookings.GeneratePaymentLink(ctx, service.PaymentLinkRequest{
		UserID:      user.ID,
		FlightID:    "FZ-100",
		SeatNumbers: []string{"12A", "12B"},
		Class:       "economy",
		Amount:      45_000,
		Currency:    "USD",
	})
	require.NoError(t, err)
	assert.Contains(t, link.URL, "https://flyzoneairlines.com/payment/")
	assert.Regexp(t, `^BOOK-[0-9a-f]{8}$`, link.Booking.BookingRef)
	assert.Equal(t, domain.PaymentStatusPending, link.Payment.Status)

	// The link token resolves to the persisted payment row.
	token := link.URL[strings.LastIndex(link.URL, "/")+1:]
	paymentID, err := auth.VerifyPaymentLink(token, "test-secret")
	require.NoError(t, err)
	stored, err := repository.NewPaymentRepository(pool).GetByID(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, link.Booking.ID, stored.BookingID)
	assert.Equal(t, int64(45_000), stored.Amount)

	// A second booking overlapping one seat fails and leaves no rows.
	other := testutil.SeedUser(t, pool, "second@test.com", "Second", 0)
	_, err = svc.bookings.GeneratePaymentLink(ctx, service.PaymentLinkRequest{
		UserID:      other.ID,
		FlightID:    "FZ-100",
		SeatNumbers: []string{"12B", "12C"},
		Class:       "economy",
		Amount:      45_000,
		Currency:    "USD",
	})
	require.Error(t, err)

	var conflict *domain.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"12B"}, conflict.SeatNumbers)
	require.ErrorIs(t, err, domain.ErrSeatsTaken)

	// Only the first booking's seats exist; 12C was rolled back.
	assert.Equal(t, 2, testutil.CountSeats(t, pool, "FZ-100"))

	// Same seat number on a different flight is fine.
	_, err = svc.bookings.GeneratePaymentLink(ctx, service.PaymentLinkRequest{
		UserID:      other.ID,
		FlightID:    "FZ-200",
		SeatNumbers: []string{"12B"},
		Class:       "economy",
		Amount:      45_000,
		Currency:    "USD",
	})
	require.NoError(t, err)
}

func TestGeneratePaymentLink_ConcurrentSameSeat(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	// Both callers want 14C on the same flight; the unique seat index
	// must let exactly one commit and leave no rows from the loser.
	first := testutil.SeedUser(t, pool, "race-a@test.com", "Racer A", 0)
	second := testutil.SeedUser(t, pool, "race-b@test.com", "Racer B", 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []*domain.User{first, second} {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.bookings.GeneratePaymentLink(ctx, service.PaymentLinkRequest{
				UserID:      userID,
				FlightID:    "FZ-300",
				SeatNumbers: []string{"14C"},
				Class:       "economy",
				Amount:      45_000,
				Currency:    "USD",
			})
		}(i, user.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrSeatsTaken)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, testutil.CountSeats(t, pool, "FZ-300"))
}

func TestRegister_ConcurrentDuplicateEmail(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.users.Register(ctx, service.RegisterRequest{
				FullName: "Racing Registrant",
				Email:    "same@test.com",
				Password: "password123",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrEmailTaken)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestTrackBooking(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	user := testutil.SeedUser(t, pool, "tracker@test.com", "Tracker", 0)

	link, err := svc.bookings.GeneratePaymentLink(ctx, service.PaymentLinkRequest{
		UserID:      user.ID,
		FlightID:    "FZ-300",
		SeatNumbers: []string{"1A", "1B"},
		Class:       "business",
		Amount:      120_000,
		Currency:    "USD",
	})
	require.NoError(t, err)

	tracked, err := svc.bookings.TrackBooking(ctx, link.Booking.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, link.Booking.ID, tracked.Booking.ID)
	require.Len(t, tracked.Seats, 2)
	assert.Equal(t, "1A", tracked.Seats[0].SeatNumber)
	assert.Equal(t, "1B", tracked.Seats[1].SeatNumber)

	_, err = svc.bookings.TrackBooking(ctx, "BOOK-missing1")
	require.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestSupportMailboxFlow(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	svc := setupServices(t, pool)
	ctx := context.Background()

	admin := testutil.SeedAdmin(t, pool, "admin@test.com", "Admin")
	alice := testutil.SeedUser(t, pool, "alice@test.com", "Alice", 0)
	bob := testutil.SeedUser(t, pool, "bob@test.com", "Bob", 0)

	_, err := svc.support.Send(ctx, alice.ID, admin.ID, "My deposit is stuck", false)
	require.NoError(t, err)
	_, err = svc.support.Send(ctx, bob.ID, admin.ID, "Cannot set my pin", false)
	require.NoError(t, err)
	_, err = svc.support.Send(ctx, admin.ID, alice.ID, "Looking into it now", true)
	require.NoError(t, err)

	_, err = svc.support.Send(ctx, alice.ID, admin.ID, "   ", false)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	mailbox, err := svc.support.Mailbox(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mailbox, 2)
	assert.Equal(t, "My deposit is stuck", mailbox[0].Body)
	assert.True(t, mailbox[1].FromAdmin)

	thread, err := svc.support.Thread(ctx, admin.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)

	convs, err := svc.support.Conversations(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	// Bob wrote last, so his conversation leads.
	assert.Equal(t, bob.ID, convs[0].UserID)
	assert.Equal(t, "Cannot set my pin", convs[0].LastMessage)
	assert.Equal(t, alice.ID, convs[1].UserID)
}
