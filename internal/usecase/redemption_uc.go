package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
	"uniresto-dining/internal/infra/logging"
)

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

// Placeholders rendered when a booking outlives the records it references.
const (
	placeholderAccount = "deleted account"
	placeholderMenu    = "menu no longer available"
)

// Locker serializes counter actions on one ticket across terminals. Optional:
// a single-process deployment relies on the repository compare-and-set alone.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

const ticketLockTTL = 10 * time.Second

// TicketView is what a counter terminal sees for a typed code: the booking,
// display data for the student and meal (with placeholders for deleted
// records), and the legal next actions derived from the state machine.
type TicketView struct {
	Booking     *model.Booking `json:"booking"`
	StudentName string         `json:"student_name"`
	MenuLabel   string         `json:"menu_label"`
	MenuPrice   float64        `json:"menu_price"`
	MenuDeleted bool           `json:"menu_deleted"`
	Actions     []model.Action `json:"actions"`
}

// RedemptionUseCase is the thin counter-side orchestration over the booking
// lifecycle: resolve a typed code, show what may happen next, drive it.
type RedemptionUseCase interface {
	// Resolve returns (nil, nil) when no booking carries the code.
	Resolve(ctx context.Context, code string) (*TicketView, error)
	MarkPaid(ctx context.Context, code string) (*model.Booking, error)
	Redeem(ctx context.Context, code string) (*model.Booking, error)
}

type redemptionUC struct {
	bookings BookingUseCase
	accounts repository.AccountRepository
	menus    repository.MenuRepository
	locker   Locker // may be nil
	log      *zerolog.Logger
}

func NewRedemptionUseCase(bookings BookingUseCase, accounts repository.AccountRepository, menus repository.MenuRepository, locker Locker, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{bookings: bookings, accounts: accounts, menus: menus, locker: locker, log: logger}
}

func (u *redemptionUC) Resolve(ctx context.Context, code string) (*TicketView, error) {
	defer logging.TraceDuration(u.log, "RedemptionUC.Resolve")()

	b, err := u.bookings.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}

	view := &TicketView{
		Booking:     b,
		StudentName: placeholderAccount,
		MenuLabel:   placeholderMenu,
		MenuDeleted: true,
		Actions:     model.LegalActions(b.Status),
	}

	// Both lookups tolerate missing records: historical tickets outlive the
	// accounts and menus they point to.
	if acc, err := u.accounts.FindByID(ctx, repository.NoTX, b.StudentID); err == nil {
		view.StudentName = acc.FullName
	}
	if menu, err := u.menus.FindByID(ctx, repository.NoTX, b.MenuID); err == nil {
		view.MenuLabel = menu.Description
		view.MenuPrice = menu.Price
		view.MenuDeleted = false
	}
	return view, nil
}

func (u *redemptionUC) MarkPaid(ctx context.Context, code string) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "RedemptionUC.MarkPaid")()
	return u.apply(ctx, code, func(id string) (*model.Booking, error) {
		return u.bookings.MarkPaid(ctx, id)
	})
}

func (u *redemptionUC) Redeem(ctx context.Context, code string) (*model.Booking, error) {
	defer logging.TraceDuration(u.log, "RedemptionUC.Redeem")()
	return u.apply(ctx, code, func(id string) (*model.Booking, error) {
		return u.bookings.Redeem(ctx, id)
	})
}

func (u *redemptionUC) apply(ctx context.Context, code string, fn func(bookingID string) (*model.Booking, error)) (*model.Booking, error) {
	normalized := model.NormalizeCode(code)
	ctx = logging.WithCode(ctx, normalized)

	if u.locker != nil {
		token, err := u.locker.TryLock(ctx, "ticket:"+normalized, ticketLockTTL)
		if err != nil {
			return nil, domain.ErrLockBusy
		}
		defer func() { _ = u.locker.Unlock(ctx, "ticket:"+normalized, token) }()
	}

	b, err := u.bookings.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return fn(b.ID)
}
