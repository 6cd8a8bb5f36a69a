package repository

import (
	"context"

	"uniresto-dining/internal/domain/model"
)

// -----------------------------
// Menu catalog
// -----------------------------

type MenuRepository interface {
	Save(ctx context.Context, tx Tx, m *model.MenuEntry) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MenuEntry, error)
	// LockEntry serializes writers against one entry for the rest of the
	// transaction, so a capacity check and the insert it guards see a stable
	// booking count. Implementations without transactions may no-op when the
	// surrounding execution is already serialized.
	LockEntry(ctx context.Context, tx Tx, id string) error
	// SetActive flips the active flag. Unknown ids are a no-op, not an error:
	// callers may hold stale references after a removal.
	SetActive(ctx context.Context, tx Tx, id string, active bool) error
	// Delete removes the entry. Bookings referencing it are left untouched.
	Delete(ctx context.Context, tx Tx, id string) error
	// ListActive returns active entries in insertion order.
	ListActive(ctx context.Context, tx Tx) ([]*model.MenuEntry, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.MenuEntry, error)
}
