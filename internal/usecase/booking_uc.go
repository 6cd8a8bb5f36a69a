package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
	"uniresto-dining/internal/infra/logging"
	"uniresto-dining/internal/infra/metrics"
)

// Compile-time check
var _ BookingUseCase = (*bookingUC)(nil)

// codeRetryLimit bounds regeneration on ticket-code collisions. Collisions
// are astronomically rare given the code space; the guard exists so a
// collision is retried instead of assumed away.
const codeRetryLimit = 5

// BookingUseCase owns the reservation lifecycle. All status reads and writes
// go through here; callers never manipulate the booking collection directly.
type BookingUseCase interface {
	// Create reserves a meal for a student against an active menu entry and
	// assigns the unique redemption code. The booking starts PENDING.
	Create(ctx context.Context, studentID, menuID string, method model.PaymentMethod) (*model.Booking, error)
	// MarkPaid records payment on a PENDING booking.
	MarkPaid(ctx context.Context, bookingID string) (*model.Booking, error)
	// Redeem consumes a PAID booking at the counter. One-shot.
	Redeem(ctx context.Context, bookingID string) (*model.Booking, error)
	// FindByCode resolves a typed code case-insensitively. No match is a
	// normal empty result: (nil, nil).
	FindByCode(ctx context.Context, code string) (*model.Booking, error)
	// ListForStudent returns the student's full booking history in creation
	// order, regardless of status.
	ListForStudent(ctx context.Context, studentID string) ([]*model.Booking, error)
}

type bookingUC struct {
	bookings repository.BookingRepository
	menus    repository.MenuRepository
	txm      repository.TransactionManager
	log      *zerolog.Logger
}

func NewBookingUseCase(bookings repository.BookingRepository, menus repository.MenuRepository, txm repository.TransactionManager, logger *zerolog.Logger) *bookingUC {
	return &bookingUC{bookings: bookings, menus: menus, txm: txm, log: logger}
}

func (u *bookingUC) Create(ctx context.Context, studentID, menuID string, method model.PaymentMethod) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "BookingUC.Create")()

	if studentID == "" || menuID == "" {
		return nil, domain.ErrInvalidArgument
	}

	menu, err := u.menus.FindByID(ctx, repository.NoTX, menuID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidMenuReference
		}
		return nil, err
	}
	if !menu.Active {
		return nil, domain.ErrInvalidMenuReference
	}

	// Each attempt runs in its own transaction: a unique violation aborts
	// the transaction it happened in, so a code collision must start over
	// rather than retry inside the aborted one.
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		code, err := generateTicketCode()
		if err != nil {
			return nil, err
		}
		b, err := model.NewBooking(ulid.Make().String(), studentID, menu, method, code)
		if err != nil {
			return nil, err
		}

		err = u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if menu.Capacity > 0 {
				// Serialize bookers of this entry so the count below cannot
				// be overtaken between the check and the insert.
				if err := u.menus.LockEntry(ctx, tx, menuID); err != nil {
					return err
				}
				booked, err := u.bookings.CountByMenu(ctx, tx, menuID)
				if err != nil {
					return err
				}
				if booked >= menu.Capacity {
					return domain.ErrMenuSoldOut
				}
			}

			// One booking per student per menu entry. The repository
			// enforces the same rule on insert, so the check-then-create
			// pair cannot race into a duplicate.
			exists, err := u.bookings.ExistsForStudentAndMenu(ctx, tx, studentID, menuID)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateBooking
			}
			return u.bookings.Create(ctx, tx, b)
		})
		if err == nil {
			metrics.IncBookingCreated(string(method))
			u.log.Info().Str("booking_id", b.ID).Str("code", b.Code).Str("menu_id", menuID).Msg("booking created")
			return b, nil
		}
		if errors.Is(err, domain.ErrCodeTaken) {
			metrics.IncCodeCollision()
			u.log.Warn().Str("code", b.Code).Msg("ticket code collision, regenerating")
			continue
		}
		return nil, err
	}
	return nil, domain.ErrCodeTaken
}

func (u *bookingUC) MarkPaid(ctx context.Context, bookingID string) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "BookingUC.MarkPaid")()
	return u.transition(ctx, bookingID, model.ActionMarkPaid)
}

func (u *bookingUC) Redeem(ctx context.Context, bookingID string) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "BookingUC.Redeem")()
	return u.transition(ctx, bookingID, model.ActionRedeem)
}

// transition applies one lifecycle action as a compare-and-set: the status
// write succeeds only if the booking is still in the state the precondition
// was checked against. A concurrent winner leaves the loser with the exact
// rejection the new state implies, never a silent double-apply.
func (u *bookingUC) transition(ctx context.Context, bookingID string, action model.Action) (*model.Booking, error) {
	b, err := u.bookings.FindByID(ctx, repository.NoTX, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := model.NextStatus(b.Status, action)
	if err != nil {
		metrics.IncTransition(string(action), "rejected")
		return nil, err
	}

	var redeemedAt *time.Time
	if next == model.BookingStatusValidated {
		now := time.Now()
		redeemedAt = &now
	}

	if err := u.bookings.UpdateStatus(ctx, repository.NoTX, bookingID, b.Status, next, redeemedAt); err != nil {
		if errors.Is(err, domain.ErrStaleStatus) {
			metrics.IncTransition(string(action), "stale")
			// Re-read to surface the rejection implied by the winning state.
			cur, ferr := u.bookings.FindByID(ctx, repository.NoTX, bookingID)
			if ferr == nil {
				if _, terr := model.NextStatus(cur.Status, action); terr != nil {
					return nil, terr
				}
			}
			return nil, domain.ErrStaleStatus
		}
		return nil, err
	}

	b.Status = next
	b.RedeemedAt = redeemedAt
	metrics.IncTransition(string(action), "applied")
	logging.With(logging.WithBookingID(ctx, b.ID), u.log).Info().
		Str("status", string(next)).Msg("booking transitioned")
	return b, nil
}

func (u *bookingUC) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "BookingUC.FindByCode")()

	b, err := u.bookings.FindByCode(ctx, repository.NoTX, model.NormalizeCode(code))
	if errors.Is(err, domain.ErrNotFound) {
		// Absence of a ticket is a common, expected outcome.
		return nil, nil
	}
	return b, err
}

func (u *bookingUC) ListForStudent(ctx context.Context, studentID string) ([]*model.Booking, error) {
	defer logging.TraceDuration(u.log, "BookingUC.ListForStudent")()
	return u.bookings.ListByStudent(ctx, repository.NoTX, studentID)
}
