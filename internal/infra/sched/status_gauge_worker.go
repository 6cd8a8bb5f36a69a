package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain/ports/repository"
	"uniresto-dining/internal/infra/metrics"
)

// StatusGaugeWorker periodically refreshes the bookings-by-status gauge. It
// only observes: booking lifecycles are driven by students and staff, never
// by the clock.
type StatusGaugeWorker struct {
	interval time.Duration
	bookings repository.BookingRepository
	log      *zerolog.Logger
}

func NewStatusGaugeWorker(interval time.Duration, bookings repository.BookingRepository, logger *zerolog.Logger) *StatusGaugeWorker {
	compLog := logger.With().Str("component", "StatusGaugeWorker").Logger()
	return &StatusGaugeWorker{
		interval: interval,
		bookings: bookings,
		log:      &compLog,
	}
}

func (w *StatusGaugeWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting status gauge worker")
	// Run once on startup, then on every tick
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping status gauge worker")
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatusGaugeWorker) refresh(ctx context.Context) {
	counts, err := w.bookings.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		w.log.Error().Err(err).Msg("status gauge refresh failed")
		return
	}
	metrics.SetBookingsTotal(counts)
}
