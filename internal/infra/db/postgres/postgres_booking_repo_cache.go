package postgres

import (
	"context"
	"fmt"
	"time"

	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
	"uniresto-dining/internal/infra/metrics"
	red "uniresto-dining/internal/infra/redis"
)

var _ repository.BookingRepository = (*bookingRepoCacheDecorator)(nil)

// bookingRepoCacheDecorator caches the code-to-booking-id mapping. The
// mapping is immutable once a booking is created, so it never needs
// invalidation; the booking row itself is always read fresh because its
// status changes.
type bookingRepoCacheDecorator struct {
	repository.BookingRepository

	cache red.RedisClient
	ttl   time.Duration
}

func NewBookingRepoCacheDecorator(inner repository.BookingRepository, cache red.RedisClient, ttl time.Duration) repository.BookingRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &bookingRepoCacheDecorator{
		BookingRepository: inner,
		cache:             cache,
		ttl:               ttl,
	}
}

func ticketKey(code string) string { return fmt.Sprintf("ticket:code:%s", code) }

func (d *bookingRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	if err := d.BookingRepository.Create(ctx, tx, b); err != nil {
		return err
	}
	d.cache.Set(ctx, ticketKey(b.Code), b.ID, d.ttl)
	return nil
}

func (d *bookingRepoCacheDecorator) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Booking, error) {
	if id, err := d.cache.Get(ctx, ticketKey(code)); err == nil && id != "" {
		metrics.IncCacheRequest("ticket", "hit")
		return d.BookingRepository.FindByID(ctx, tx, id)
	}

	metrics.IncCacheRequest("ticket", "miss")
	b, err := d.BookingRepository.FindByCode(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	d.cache.Set(ctx, ticketKey(b.Code), b.ID, d.ttl)
	return b, nil
}
