package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

// MonthTotals holds one month's Completed deposit and transfer volume.
type MonthTotals struct {
	Deposits  int64
	Transfers int64
}

// ChangePercent is the month-over-month change, rendered with two
// decimal places. A jump from zero counts as 100% when there is any
// current activity.
type ChangePercent struct {
	Deposits  string
	Transfers string
}

type Profile struct {
	User         *domain.User
	CurrentMonth MonthTotals
	LastMonth    MonthTotals
	Increase     ChangePercent
}

type ProfileService struct {
	users        userRepo
	transactions transactionRepo
}

func NewProfileService(users userRepo, transactions transactionRepo) *ProfileService {
	return &ProfileService{users: users, transactions: transactions}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", asUserNotFound(err))
	}

	now := time.Now().UTC()
	curStart := monthStart(now)
	lastStart := monthStart(curStart.AddDate(0, 0, -1))

	current, err := s.monthTotals(ctx, userID, curStart, curStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("GetProfile: current month: %w", err)
	}
	last, err := s.monthTotals(ctx, userID, lastStart, curStart)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: last month: %w", err)
	}

	return &Profile{
		User:         user,
		CurrentMonth: current,
		LastMonth:    last,
		Increase: ChangePercent{
			Deposits:  percentChange(last.Deposits, current.Deposits),
			Transfers: percentChange(last.Transfers, current.Transfers),
		},
	}, nil
}

func (s *ProfileService) monthTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (MonthTotals, error) {
	deposits, err := s.transactions.SumCompletedInRange(ctx, userID, domain.TransactionTypeDeposit, from, to)
	if err != nil {
		return MonthTotals{}, err
	}
	transfers, err := s.transactions.SumCompletedInRange(ctx, userID, domain.TransactionTypeTransfer, from, to)
	if err != nil {
		return MonthTotals{}, err
	}
	return MonthTotals{Deposits: deposits, Transfers: transfers}, nil
}

func percentChange(last, current int64) string {
	if last == 0 {
		if current > 0 {
			return "100.00"
		}
		return "0.00"
	}

	lastD := decimal.NewFromInt(last)
	currentD := decimal.NewFromInt(current)
	return currentD.Sub(lastD).Div(lastD).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
