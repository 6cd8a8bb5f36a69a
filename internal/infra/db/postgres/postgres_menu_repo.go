package postgres

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.MenuRepository = (*menuRepo)(nil)

type menuRepo struct {
	pool *pgxpool.Pool
}

func NewMenuRepo(pool *pgxpool.Pool) *menuRepo {
	return &menuRepo{pool: pool}
}

const menuColumns = `id, service_date, meal_type, price, description, image_url, capacity, active, created_at`

func (r *menuRepo) Save(ctx context.Context, tx repository.Tx, m *model.MenuEntry) error {
	const q = `
INSERT INTO menus (id, service_date, meal_type, price, description, image_url, capacity, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  service_date = EXCLUDED.service_date,
  meal_type    = EXCLUDED.meal_type,
  price        = EXCLUDED.price,
  description  = EXCLUDED.description,
  image_url    = EXCLUDED.image_url,
  capacity     = EXCLUDED.capacity,
  active       = EXCLUDED.active;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		m.ID, m.ServiceDate, m.MealType, m.Price, m.Description, m.ImageURL, m.Capacity, m.Active, m.CreatedAt,
	)
	return err
}

func (r *menuRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MenuEntry, error) {
	const q = `SELECT ` + menuColumns + ` FROM menus WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanMenu(row)
}

// LockEntry takes an advisory xact lock keyed on the entry id, held until
// the surrounding transaction ends.
func (r *menuRepo) LockEntry(ctx context.Context, tx repository.Tx, id string) error {
	const q = `SELECT pg_advisory_xact_lock($1);`
	_, err := execSQL(ctx, r.pool, tx, q, hashToInt64(id))
	return err
}

// SetActive is a no-op for unknown ids.
func (r *menuRepo) SetActive(ctx context.Context, tx repository.Tx, id string, active bool) error {
	const q = `UPDATE menus SET active = $2 WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, active)
	return err
}

func (r *menuRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM menus WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	return err
}

func (r *menuRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	const q = `SELECT ` + menuColumns + ` FROM menus WHERE active = TRUE ORDER BY created_at ASC, id ASC;`
	return r.list(ctx, tx, q)
}

func (r *menuRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	const q = `SELECT ` + menuColumns + ` FROM menus ORDER BY created_at ASC, id ASC;`
	return r.list(ctx, tx, q)
}

func (r *menuRepo) list(ctx context.Context, tx repository.Tx, q string, args ...any) ([]*model.MenuEntry, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.MenuEntry
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

func scanMenu(row pgx.Row) (*model.MenuEntry, error) {
	m := &model.MenuEntry{}
	var mealType string
	err := row.Scan(&m.ID, &m.ServiceDate, &mealType, &m.Price, &m.Description, &m.ImageURL, &m.Capacity, &m.Active, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	m.MealType = model.MealType(mealType)
	return m, nil
}
