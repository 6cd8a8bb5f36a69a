package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables and indexes the repositories expect.
// Safe to run on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id         UUID PRIMARY KEY,
			full_name  TEXT NOT NULL,
			email      TEXT NOT NULL,
			role       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE(email)
		);

		CREATE TABLE IF NOT EXISTS menus (
			id           UUID PRIMARY KEY,
			service_date DATE NOT NULL,
			meal_type    TEXT NOT NULL,
			price        NUMERIC(8,2) NOT NULL,
			description  TEXT NOT NULL,
			image_url    TEXT NOT NULL DEFAULT '',
			capacity     INT NOT NULL DEFAULT 0,
			active       BOOLEAN NOT NULL DEFAULT true,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS bookings (
			id             TEXT PRIMARY KEY,
			student_id     TEXT NOT NULL,
			menu_id        UUID NOT NULL,
			service_date   DATE NOT NULL,
			payment_method TEXT NOT NULL,
			code           TEXT NOT NULL,
			status         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			redeemed_at    TIMESTAMPTZ,
			CONSTRAINT bookings_code_key UNIQUE (code),
			CONSTRAINT bookings_student_menu_key UNIQUE (student_id, menu_id)
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_student ON bookings(student_id);
		CREATE INDEX IF NOT EXISTS idx_bookings_menu ON bookings(menu_id);
		CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);
		CREATE INDEX IF NOT EXISTS idx_menus_service_date ON menus(service_date);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
