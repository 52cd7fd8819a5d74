package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const createLoginsTable = `
CREATE TABLE IF NOT EXISTS operator_logins (
    address     TEXT PRIMARY KEY,
    first_login TIMESTAMPTZ NOT NULL,
    last_login  TIMESTAMPTZ NOT NULL,
    login_count INTEGER     NOT NULL DEFAULT 1
)`

const upsertLogin = `
INSERT INTO operator_logins (address, first_login, last_login, login_count)
VALUES ($1, $2, $2, 1)
ON CONFLICT (address) DO UPDATE
    SET last_login  = EXCLUDED.last_login,
        login_count = operator_logins.login_count + 1
RETURNING address, first_login, last_login, login_count`

const selectLogin = `
SELECT address, first_login, last_login, login_count
FROM operator_logins WHERE address = $1`

type pgAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo 需要 lib/pq 驱动已注册（storage.InitPostgres）
func NewPostgresAccountRepo(db *sql.DB) AccountRepo {
	return &pgAccountRepo{db: db}
}

// MigrateAccounts 建表，启动时调用一次
func MigrateAccounts(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createLoginsTable)
	return err
}

func (p *pgAccountRepo) RecordLogin(ctx context.Context, address string, at time.Time) (Account, error) {
	var a Account
	err := p.db.QueryRowContext(ctx, upsertLogin, address, at.UTC()).
		Scan(&a.Address, &a.FirstLogin, &a.LastLogin, &a.LoginCount)
	return a, err
}

func (p *pgAccountRepo) Get(ctx context.Context, address string) (Account, error) {
	var a Account
	err := p.db.QueryRowContext(ctx, selectLogin, address).
		Scan(&a.Address, &a.FirstLogin, &a.LastLogin, &a.LoginCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}
