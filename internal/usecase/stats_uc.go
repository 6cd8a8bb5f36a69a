package usecase

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// DailyRevenue is one day's paid takings, summed at the referenced menu
// price over PAID and VALIDATED bookings.
type DailyRevenue struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

type StatsUseCase interface {
	Totals(ctx context.Context) (accounts int, byStatus map[model.BookingStatus]int, err error)
	// RevenueByDay returns daily revenue in ascending date order.
	RevenueByDay(ctx context.Context) ([]DailyRevenue, error)
}

type statsUC struct {
	accounts repository.AccountRepository
	bookings repository.BookingRepository

	log *zerolog.Logger
}

func NewStatsUseCase(accounts repository.AccountRepository, bookings repository.BookingRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{accounts: accounts, bookings: bookings, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, map[model.BookingStatus]int, error) {
	accounts, err := s.accounts.Count(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	byStatus, err := s.bookings.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	return accounts, byStatus, nil
}

func (s *statsUC) RevenueByDay(ctx context.Context) ([]DailyRevenue, error) {
	sums, err := s.bookings.SumPaidByDate(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	out := make([]DailyRevenue, 0, len(sums))
	for date, total := range sums {
		out = append(out, DailyRevenue{Date: date, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
