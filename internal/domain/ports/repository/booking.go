package repository

import (
	"context"
	"time"

	"uniresto-dining/internal/domain/model"
)

// -----------------------------
// Bookings
// -----------------------------

type BookingRepository interface {
	// Create inserts a new booking. Implementations must return
	// domain.ErrCodeTaken when the redemption code is already assigned to any
	// booking (ever created) and domain.ErrDuplicateBooking when the
	// (student, menu) pair already exists.
	Create(ctx context.Context, tx Tx, b *model.Booking) error

	FindByID(ctx context.Context, tx Tx, id string) (*model.Booking, error)
	// FindByCode matches the normalized (upper-case) code exactly and returns
	// domain.ErrNotFound when no booking carries it.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Booking, error)
	// ListByStudent returns every booking ever created for the student, in
	// creation order, regardless of status.
	ListByStudent(ctx context.Context, tx Tx, studentID string) ([]*model.Booking, error)
	ExistsForStudentAndMenu(ctx context.Context, tx Tx, studentID, menuID string) (bool, error)

	// UpdateStatus performs the compare-and-set at the heart of the lifecycle:
	// the write succeeds only if the booking is still in `from`, otherwise
	// domain.ErrStaleStatus is returned and the caller re-reads to learn the
	// winning state. redeemedAt is recorded when `to` is VALIDATED.
	UpdateStatus(ctx context.Context, tx Tx, id string, from, to model.BookingStatus, redeemedAt *time.Time) error

	CountByMenu(ctx context.Context, tx Tx, menuID string) (int, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.BookingStatus]int, error)
	// SumPaidByDate sums the referenced menu price of PAID and VALIDATED
	// bookings per service date (YYYY-MM-DD keys). Bookings whose menu entry
	// was deleted contribute nothing; their price is no longer known.
	SumPaidByDate(ctx context.Context, tx Tx) (map[string]float64, error)
}
