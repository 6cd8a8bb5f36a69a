package repository

import (
	"context"

	"uniresto-dining/internal/domain/model"
)

// -----------------------------
// Accounts (directory)
// -----------------------------

type AccountRepository interface {
	// Save inserts or updates. Implementations must return
	// domain.ErrAlreadyExists when the email is taken by another account.
	Save(ctx context.Context, tx Tx, a *model.Account) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Account, error)
	// Delete removes the account. Bookings owned by it are left untouched.
	Delete(ctx context.Context, tx Tx, id string) error
	ListByRole(ctx context.Context, tx Tx, role model.Role) ([]*model.Account, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
