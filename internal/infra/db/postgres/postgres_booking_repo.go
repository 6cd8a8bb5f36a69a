package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.BookingRepository = (*bookingRepo)(nil)

type bookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *bookingRepo {
	return &bookingRepo{pool: pool}
}

const bookingColumns = `id, student_id, menu_id, service_date, payment_method, code, status, created_at, redeemed_at`

// Create inserts a new booking. Two unique indexes back the domain rules:
// one on code, one on (student_id, menu_id). The violated constraint name
// tells the two conflicts apart.
func (r *bookingRepo) Create(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	const q = `
INSERT INTO bookings (id, student_id, menu_id, service_date, payment_method, code, status, created_at, redeemed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.StudentID, b.MenuID, b.ServiceDate, b.PaymentMethod, b.Code, b.Status, b.CreatedAt, b.RedeemedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "code") {
				return domain.ErrCodeTaken
			}
			return domain.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *bookingRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1;`
	return r.queryOne(ctx, tx, q, code)
}

// ListByStudent relies on the lexicographic ordering of ULIDs for creation
// order.
func (r *bookingRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, studentID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *bookingRepo) ExistsForStudentAndMenu(ctx context.Context, tx repository.Tx, studentID, menuID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM bookings WHERE student_id = $1 AND menu_id = $2);`
	row, err := pickRow(ctx, r.pool, tx, q, studentID, menuID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

// UpdateStatus is the lifecycle compare-and-set: the row is written only if
// its status still equals `from`. Zero rows affected means a concurrent
// writer won (or the id is unknown).
func (r *bookingRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.BookingStatus, redeemedAt *time.Time) error {
	const q = `
UPDATE bookings
   SET status = $3, redeemed_at = COALESCE($4, redeemed_at)
 WHERE id = $1 AND status = $2;
`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, from, to, redeemedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, tx, id); err != nil {
			return err
		}
		return domain.ErrStaleStatus
	}
	return nil
}

func (r *bookingRepo) CountByMenu(ctx context.Context, tx repository.Tx, menuID string) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE menu_id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, menuID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *bookingRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.BookingStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM bookings GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.BookingStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

// SumPaidByDate joins against the live menu table, so bookings whose menu
// entry was deleted contribute nothing.
func (r *bookingRepo) SumPaidByDate(ctx context.Context, tx repository.Tx) (map[string]float64, error) {
	const q = `
SELECT to_char(b.service_date, 'YYYY-MM-DD') AS day, SUM(m.price)
  FROM bookings b
  JOIN menus m ON m.id = b.menu_id
 WHERE b.status IN ('PAID', 'VALIDATED')
 GROUP BY day;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var day string
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		sums[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return sums, nil
}

func (r *bookingRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Booking, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanBooking(row)
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	b := &model.Booking{}
	var status, method string
	err := row.Scan(&b.ID, &b.StudentID, &b.MenuID, &b.ServiceDate, &method, &b.Code, &status, &b.CreatedAt, &b.RedeemedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	b.PaymentMethod = model.PaymentMethod(method)
	b.Status = model.BookingStatus(status)
	return b, nil
}
