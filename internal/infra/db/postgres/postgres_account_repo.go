package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *accountRepo {
	return &accountRepo{pool: pool}
}

const accountColumns = `id, full_name, email, role, created_at`

func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, full_name, email, role, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
  full_name = EXCLUDED.full_name,
  email     = EXCLUDED.email,
  role      = EXCLUDED.role;
`
	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.FullName, a.Email, a.Role, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *accountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *accountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`
	return r.queryOne(ctx, tx, q, email)
}

func (r *accountRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM accounts WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	return err
}

func (r *accountRepo) ListByRole(ctx context.Context, tx repository.Tx, role model.Role) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY created_at ASC, id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, role)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *accountRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `SELECT COUNT(*) FROM accounts;`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *accountRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Account, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	var role string
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	a.Role = model.Role(role)
	return a, nil
}
