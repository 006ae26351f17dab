package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// --- Apartments ---

type PostgresApartmentsRepository struct {
	db *sql.DB
}

func NewPostgresApartmentsRepository(db *sql.DB) *PostgresApartmentsRepository {
	return &PostgresApartmentsRepository{db: db}
}

var _ ApartmentsRepository = (*PostgresApartmentsRepository)(nil)

const apartmentColumns = `id, apartment_image, floor_no, block_name, apartment_no, rent`

func (r *PostgresApartmentsRepository) queryApartments(ctx context.Context, query string, args ...any) ([]*domain.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Apartment{}
	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ID, &a.Image, &a.FloorNo, &a.BlockName, &a.ApartmentNo, &a.Rent); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *PostgresApartmentsRepository) ListApartments(ctx context.Context) ([]*domain.Apartment, error) {
	return r.queryApartments(ctx, `SELECT `+apartmentColumns+` FROM apartments ORDER BY created_at, id`)
}

func (r *PostgresApartmentsRepository) PageApartments(ctx context.Context, filter domain.ApartmentFilter, offset, limit int) ([]*domain.Apartment, int, error) {
	var where []string
	var args []any
	if filter.MinRent > 0 {
		args = append(args, filter.MinRent)
		where = append(where, fmt.Sprintf("rent >= $%d", len(args)))
	}
	if filter.MaxRent > 0 {
		args = append(args, filter.MaxRent)
		where = append(where, fmt.Sprintf("rent <= $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM apartments`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM apartments%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		apartmentColumns, clause, len(args)-1, len(args))
	items, err := r.queryApartments(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresApartmentsRepository) CountApartments(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM apartments`).Scan(&n)
	return n, err
}

func (r *PostgresApartmentsRepository) CreateApartment(ctx context.Context, a *domain.Apartment) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO apartments (id, apartment_image, floor_no, block_name, apartment_no, rent)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, a.Image, a.FloorNo, a.BlockName, a.ApartmentNo, a.Rent,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// --- Payments ---

type PostgresPaymentsRepository struct {
	db *sql.DB
}

func NewPostgresPaymentsRepository(db *sql.DB) *PostgresPaymentsRepository {
	return &PostgresPaymentsRepository{db: db}
}

var _ PaymentsRepository = (*PostgresPaymentsRepository)(nil)

const paymentColumns = `id, email, price, month, transaction_id, coupon_code, date, metadata`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	if err := row.Scan(&p.ID, &p.UserEmail, &p.Amount, &p.Month, &p.TransactionID, &p.CouponCode, &p.Date, &metadata); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, fmt.Errorf("decode payment metadata: %w", err)
		}
	}
	return &p, nil
}

func (r *PostgresPaymentsRepository) listPayments(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPaymentsRepository) CreatePayment(ctx context.Context, p *domain.Payment) (string, error) {
	var metadata []byte
	if len(p.Metadata) > 0 {
		b, err := json.Marshal(p.Metadata)
		if err != nil {
			return "", err
		}
		metadata = b
	}
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, email, price, month, transaction_id, coupon_code, date, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, p.UserEmail, p.Amount, p.Month, p.TransactionID, p.CouponCode, p.Date, metadata,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresPaymentsRepository) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *PostgresPaymentsRepository) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	return r.listPayments(ctx, `SELECT `+paymentColumns+` FROM payments WHERE email = $1 ORDER BY date, id`, email)
}

func (r *PostgresPaymentsRepository) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	return r.listPayments(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY date, id`)
}

// --- Coupons ---

type PostgresCouponsRepository struct {
	db *sql.DB
}

func NewPostgresCouponsRepository(db *sql.DB) *PostgresCouponsRepository {
	return &PostgresCouponsRepository{db: db}
}

var _ CouponsRepository = (*PostgresCouponsRepository)(nil)

// UpsertCoupon updates by code and inserts when nothing matched. The two
// statements are not atomic; concurrent first writes of one code can both insert.
func (r *PostgresCouponsRepository) UpsertCoupon(ctx context.Context, c *domain.Coupon) (string, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`UPDATE coupons SET discount = $2, description = $3, expired = $4 WHERE code = $1 RETURNING id`,
		c.Code, c.Discount, c.Description, c.Expired,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	id = uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO coupons (id, code, discount, description, expired) VALUES ($1, $2, $3, $4, $5)`,
		id, c.Code, c.Discount, c.Description, c.Expired,
	)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *PostgresCouponsRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, discount, description, expired FROM coupons WHERE code = $1 ORDER BY created_at LIMIT 1`, code,
	).Scan(&c.ID, &c.Code, &c.Discount, &c.Description, &c.Expired)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (r *PostgresCouponsRepository) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, discount, description, expired FROM coupons ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Coupon{}
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Discount, &c.Description, &c.Expired); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresCouponsRepository) DeleteCoupon(ctx context.Context, couponID string) error {
	return execExpectOne(ctx, r.db, `DELETE FROM coupons WHERE id = $1`, couponID)
}

// --- Announcements ---

type PostgresAnnouncementsRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementsRepository(db *sql.DB) *PostgresAnnouncementsRepository {
	return &PostgresAnnouncementsRepository{db: db}
}

var _ AnnouncementsRepository = (*PostgresAnnouncementsRepository)(nil)

func (r *PostgresAnnouncementsRepository) CreateAnnouncement(ctx context.Context, a *domain.Announcement) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO announcements (id, title, description, created_at) VALUES ($1, $2, $3, $4)`,
		id, a.Title, a.Description, a.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresAnnouncementsRepository) ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, created_at FROM announcements ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Announcement{}
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
