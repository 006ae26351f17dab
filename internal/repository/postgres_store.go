package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

//go:embed schema.sql
var postgresSchema string

// NewPostgresStore builds a Store on an open *sql.DB. The caller owns db
// until Close is called on the returned Store.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Users:              NewPostgresUsersRepository(db),
		Apartments:         NewPostgresApartmentsRepository(db),
		Agreements:         NewPostgresAgreementsRepository(db),
		AcceptedAgreements: NewPostgresAcceptedAgreementsRepository(db),
		Payments:           NewPostgresPaymentsRepository(db),
		Coupons:            NewPostgresCouponsRepository(db),
		Announcements:      NewPostgresAnnouncementsRepository(db),
		ping:               db.PingContext,
		close:              func(context.Context) error { return db.Close() },
	}
}

// MigratePostgres applies the embedded schema.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports a postgres unique_violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func execExpectOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
