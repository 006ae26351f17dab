package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// PostgresAgreementsRepository agreements 表实现
type PostgresAgreementsRepository struct {
	db *sql.DB
}

func NewPostgresAgreementsRepository(db *sql.DB) *PostgresAgreementsRepository {
	return &PostgresAgreementsRepository{db: db}
}

var _ AgreementsRepository = (*PostgresAgreementsRepository)(nil)

const agreementColumns = `id, user_name, user_email, floor_no, block_name, apartment_no, rent, status, timestamp_ms, accept_date`

func scanAgreement(row rowScanner) (*domain.Agreement, error) {
	var a domain.Agreement
	var acceptDate sql.NullTime
	if err := row.Scan(&a.ID, &a.UserName, &a.UserEmail, &a.FloorNo, &a.BlockName, &a.ApartmentNo,
		&a.Rent, &a.Status, &a.Timestamp, &acceptDate); err != nil {
		return nil, err
	}
	if acceptDate.Valid {
		t := acceptDate.Time
		a.AcceptDate = &t
	}
	return &a, nil
}

func (r *PostgresAgreementsRepository) GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, error) {
	a, err := scanAgreement(r.db.QueryRowContext(ctx,
		`SELECT `+agreementColumns+` FROM agreements WHERE id = $1`, agreementID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return a, nil
}

func (r *PostgresAgreementsRepository) FindAgreement(ctx context.Context, userEmail, apartmentNo string) (*domain.Agreement, error) {
	a, err := scanAgreement(r.db.QueryRowContext(ctx,
		`SELECT `+agreementColumns+` FROM agreements WHERE user_email = $1 AND apartment_no = $2 LIMIT 1`,
		userEmail, apartmentNo))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return a, nil
}

func (r *PostgresAgreementsRepository) ListAgreementsByStatus(ctx context.Context, status string) ([]*domain.Agreement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agreementColumns+` FROM agreements WHERE status = $1 ORDER BY timestamp_ms, id`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Agreement{}
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresAgreementsRepository) CreateAgreement(ctx context.Context, a *domain.Agreement) (string, error) {
	id := uuid.NewString()
	var acceptDate sql.NullTime
	if a.AcceptDate != nil {
		acceptDate = sql.NullTime{Time: *a.AcceptDate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO agreements (id, user_name, user_email, floor_no, block_name, apartment_no, rent, status, timestamp_ms, accept_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, a.UserName, a.UserEmail, a.FloorNo, a.BlockName, a.ApartmentNo, a.Rent, a.Status, a.Timestamp, acceptDate,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresAgreementsRepository) UpdateAgreementStatus(ctx context.Context, agreementID, status string, acceptDate *time.Time) error {
	if acceptDate == nil {
		return execExpectOne(ctx, r.db, `UPDATE agreements SET status = $1 WHERE id = $2`, status, agreementID)
	}
	return execExpectOne(ctx, r.db,
		`UPDATE agreements SET status = $1, accept_date = $2 WHERE id = $3`, status, *acceptDate, agreementID)
}

// PostgresAcceptedAgreementsRepository accepted_agreements 表实现（仅追加）
type PostgresAcceptedAgreementsRepository struct {
	db *sql.DB
}

func NewPostgresAcceptedAgreementsRepository(db *sql.DB) *PostgresAcceptedAgreementsRepository {
	return &PostgresAcceptedAgreementsRepository{db: db}
}

var _ AcceptedAgreementsRepository = (*PostgresAcceptedAgreementsRepository)(nil)

func (r *PostgresAcceptedAgreementsRepository) CreateAcceptedAgreement(ctx context.Context, a *domain.AcceptedAgreement) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accepted_agreements
		   (id, agreement_id, user_name, user_email, floor_no, block_name, apartment_no, rent, status, timestamp_ms, accept_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, a.AgreementID, a.UserName, a.UserEmail, a.FloorNo, a.BlockName, a.ApartmentNo, a.Rent, a.Status, a.Timestamp, a.AcceptDate,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresAcceptedAgreementsRepository) ListAcceptedAgreements(ctx context.Context, userEmail string) ([]*domain.AcceptedAgreement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, agreement_id, user_name, user_email, floor_no, block_name, apartment_no, rent, status, timestamp_ms, accept_date
		 FROM accepted_agreements WHERE user_email = $1 ORDER BY accept_date, id`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.AcceptedAgreement{}
	for rows.Next() {
		var a domain.AcceptedAgreement
		if err := rows.Scan(&a.ID, &a.AgreementID, &a.UserName, &a.UserEmail, &a.FloorNo, &a.BlockName,
			&a.ApartmentNo, &a.Rent, &a.Status, &a.Timestamp, &a.AcceptDate); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *PostgresAcceptedAgreementsRepository) CountAcceptedAgreements(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accepted_agreements`).Scan(&n)
	return n, err
}
