package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
	"uniresto-dining/internal/infra/logging"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

// AccountUseCase is the directory: account bookkeeping feeding display and
// booking ownership lookups. It owns no lifecycle logic. Role checks are the
// caller's responsibility.
type AccountUseCase interface {
	Register(ctx context.Context, fullName, email string, role model.Role) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	// Delete removes the account; bookings it owns are deliberately left in
	// place so historical tickets stay auditable.
	Delete(ctx context.Context, id string) error
	// ListStaff supports administrative onboarding; only staff accounts are
	// listed there.
	ListStaff(ctx context.Context) ([]*model.Account, error)
	Count(ctx context.Context) (int, error)
}

type accountUC struct {
	accounts repository.AccountRepository
	log      *zerolog.Logger
}

func NewAccountUseCase(accounts repository.AccountRepository, logger *zerolog.Logger) *accountUC {
	return &accountUC{accounts: accounts, log: logger}
}

func (u *accountUC) Register(ctx context.Context, fullName, email string, role model.Role) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.Register")()

	if existing, err := u.accounts.FindByEmail(ctx, repository.NoTX, email); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	acc, err := model.NewAccount("", fullName, email, role)
	if err != nil {
		return nil, err
	}
	if err := u.accounts.Save(ctx, repository.NoTX, acc); err != nil {
		return nil, err
	}
	u.log.Info().Str("account_id", acc.ID).Str("role", string(role)).Msg("account registered")
	return acc, nil
}

func (u *accountUC) Get(ctx context.Context, id string) (*model.Account, error) {
	return u.accounts.FindByID(ctx, repository.NoTX, id)
}

func (u *accountUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "AccountUC.Delete")()
	if err := u.accounts.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	u.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

func (u *accountUC) ListStaff(ctx context.Context) ([]*model.Account, error) {
	return u.accounts.ListByRole(ctx, repository.NoTX, model.RoleStaff)
}

func (u *accountUC) Count(ctx context.Context) (int, error) {
	return u.accounts.Count(ctx, repository.NoTX)
}
