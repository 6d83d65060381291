// Package store is the MySQL persistence layer. Every exported method returns
// *apperr.Error values for expected failures (not found, conflicts) and wraps
// driver errors as internal.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/01moynul/storefront-golang/internal/apperr"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the table repositories around one connection pool.
type Store struct {
	DB            *sql.DB
	Users         *UserStore
	Categories    *CategoryStore
	Products      *ProductStore
	Reviews       *ReviewStore
	Carts         *CartStore
	Addresses     *AddressStore
	Orders        *OrderStore
	Notifications *NotificationStore
	Stats         *StatsStore
}

func New(db *sql.DB) *Store {
	return &Store{
		DB:            db,
		Users:         &UserStore{DB: db},
		Categories:    &CategoryStore{DB: db},
		Products:      &ProductStore{DB: db},
		Reviews:       &ReviewStore{DB: db},
		Carts:         &CartStore{DB: db},
		Addresses:     &AddressStore{DB: db},
		Orders:        &OrderStore{DB: db},
		Notifications: &NotificationStore{DB: db},
		Stats:         &StatsStore{DB: db},
	}
}

// withTx runs fn in a transaction that is committed only when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dbErr(err)
	}
	return nil
}

func dbErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.Internal(apperr.MsgSomethingWentWrong, err)
}

// isDuplicateKey reports a MySQL unique constraint violation (error 1062).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
