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
var _ MenuUseCase = (*menuUC)(nil)

// PublishMenuParams carries the staff form for a new menu entry.
type PublishMenuParams struct {
	ServiceDate time.Time
	MealType    model.MealType
	Price       float64
	Description string
	ImageURL    string
	Capacity    int // 0 = unlimited
}

// MenuUseCase manages the published meal catalog. Read-only to students;
// mutations are staff actions.
type MenuUseCase interface {
	Publish(ctx context.Context, p PublishMenuParams) (*model.MenuEntry, error)
	Update(ctx context.Context, id string, p PublishMenuParams) (*model.MenuEntry, error)
	// SetActive is idempotent; unknown ids are a no-op.
	SetActive(ctx context.Context, id string, active bool) error
	// Remove deletes the entry without touching bookings that reference it.
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.MenuEntry, error)
	ListActive(ctx context.Context) ([]*model.MenuEntry, error)
	ListAll(ctx context.Context) ([]*model.MenuEntry, error)
}

type menuUC struct {
	menus repository.MenuRepository
	log   *zerolog.Logger
}

func NewMenuUseCase(menus repository.MenuRepository, logger *zerolog.Logger) *menuUC {
	return &menuUC{menus: menus, log: logger}
}

func (u *menuUC) Publish(ctx context.Context, p PublishMenuParams) (*model.MenuEntry, error) {
	defer logging.TraceDuration(u.log, "MenuUC.Publish")()

	m, err := model.NewMenuEntry(p.ServiceDate, p.MealType, p.Price, p.Description, p.ImageURL, p.Capacity)
	if err != nil {
		return nil, err
	}
	if err := u.menus.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	u.log.Info().Str("menu_id", m.ID).Str("meal_type", string(m.MealType)).Msg("menu published")
	return m, nil
}

func (u *menuUC) Update(ctx context.Context, id string, p PublishMenuParams) (*model.MenuEntry, error) {
	defer logging.TraceDuration(u.log, "MenuUC.Update")()

	m, err := u.menus.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if p.Price < 0 || p.Description == "" || !model.ValidMealType(p.MealType) {
		return nil, domain.ErrInvalidArgument
	}
	m.ServiceDate = p.ServiceDate
	m.MealType = p.MealType
	m.Price = p.Price
	m.Description = p.Description
	m.ImageURL = p.ImageURL
	if p.Capacity >= 0 {
		m.Capacity = p.Capacity
	}
	if err := u.menus.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *menuUC) SetActive(ctx context.Context, id string, active bool) error {
	defer logging.TraceDuration(u.log, "MenuUC.SetActive")()
	return u.menus.SetActive(ctx, repository.NoTX, id, active)
}

func (u *menuUC) Remove(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "MenuUC.Remove")()
	if err := u.menus.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	u.log.Info().Str("menu_id", id).Msg("menu removed")
	return nil
}

func (u *menuUC) Get(ctx context.Context, id string) (*model.MenuEntry, error) {
	return u.menus.FindByID(ctx, repository.NoTX, id)
}

func (u *menuUC) ListActive(ctx context.Context) ([]*model.MenuEntry, error) {
	return u.menus.ListActive(ctx, repository.NoTX)
}

func (u *menuUC) ListAll(ctx context.Context) ([]*model.MenuEntry, error) {
	return u.menus.ListAll(ctx, repository.NoTX)
}
