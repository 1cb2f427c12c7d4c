package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Spendbook store (SQLite).
var Migrations = migrate.NewGroup("spendbook")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_spendbook_counters",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS spendbook_counters (
    name     TEXT PRIMARY KEY,
    sequence INTEGER NOT NULL DEFAULT 0
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS spendbook_counters`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_spendbook_users",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS spendbook_users (
    id                   TEXT PRIMARY KEY,
    sequential_id        TEXT NOT NULL DEFAULT '',
    external_identity_id TEXT NOT NULL DEFAULT '',
    email                TEXT NOT NULL DEFAULT '',
    display_name         TEXT NOT NULL DEFAULT '',
    profile_image_ref    TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at           TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_spendbook_users_external ON spendbook_users (external_identity_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_spendbook_users_sequential ON spendbook_users (sequential_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS spendbook_users`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_spendbook_expenses",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS spendbook_expenses (
    id                  TEXT PRIMARY KEY,
    owner_id            TEXT NOT NULL DEFAULT '',
    owner_sequential_id TEXT NOT NULL DEFAULT '',
    owner_display_name  TEXT NOT NULL DEFAULT '',
    number              INTEGER NOT NULL,
    title               TEXT NOT NULL DEFAULT '',
    amount_minor        INTEGER NOT NULL DEFAULT 0,
    amount_currency     TEXT NOT NULL DEFAULT 'PKR',
    occurred_on         TEXT NOT NULL DEFAULT (datetime('now')),
    notes               TEXT NOT NULL DEFAULT '',
    created_at          TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_spendbook_expenses_owner_number ON spendbook_expenses (owner_id, number);
CREATE INDEX IF NOT EXISTS idx_spendbook_expenses_owner_date ON spendbook_expenses (owner_id, occurred_on DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS spendbook_expenses`)
				return err
			},
		},
	)
}
