package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// apartments
// ============================================

func TestPostgresApartments_PageWithRentFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresApartmentsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM apartments WHERE rent >= \$1 AND rent <= \$2`).
		WithArgs(1000.0, 2000.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`SELECT .* FROM apartments WHERE rent >= \$1 AND rent <= \$2 ORDER BY created_at, id LIMIT \$3 OFFSET \$4`).
		WithArgs(1000.0, 2000.0, 6, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apartment_image", "floor_no", "block_name", "apartment_no", "rent"}).
			AddRow("a7", "https://img/7.jpg", "2", "B", "B-201", 1500.0).
			AddRow("a8", "https://img/8.jpg", "2", "B", "B-202", 1800.0))

	items, total, err := repo.PageApartments(context.Background(),
		domain.ApartmentFilter{MinRent: 1000, MaxRent: 2000}, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, total)
	require.Len(t, items, 2)
	assert.Equal(t, "B-201", items[0].ApartmentNo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApartments_PageUnfiltered(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresApartmentsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM apartments$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$1 OFFSET \$2`).
		WithArgs(6, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apartment_image", "floor_no", "block_name", "apartment_no", "rent"}))

	items, total, err := repo.PageApartments(context.Background(), domain.ApartmentFilter{}, 0, 6)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// agreements
// ============================================

var agreementRowColumns = []string{
	"id", "user_name", "user_email", "floor_no", "block_name", "apartment_no",
	"rent", "status", "timestamp_ms", "accept_date",
}

func TestPostgresAgreements_FindByEmailAndApartment(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresAgreementsRepository(db)

	mock.ExpectQuery(`WHERE user_email = \$1 AND apartment_no = \$2 LIMIT 1`).
		WithArgs("tenant@example.com", "A-301").
		WillReturnRows(sqlmock.NewRows(agreementRowColumns).
			AddRow("ag1", "Tenant", "tenant@example.com", "3", "A", "A-301", 1200.0, "pending", int64(1714000000000), nil))

	a, err := repo.FindAgreement(context.Background(), "tenant@example.com", "A-301")
	require.NoError(t, err)
	assert.Equal(t, "ag1", a.ID)
	assert.Equal(t, domain.AgreementPending, a.Status)
	assert.Nil(t, a.AcceptDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAgreements_ListByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresAgreementsRepository(db)
	accepted := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM agreements WHERE status = \$1 ORDER BY timestamp_ms, id`).
		WithArgs(domain.AgreementAccepted).
		WillReturnRows(sqlmock.NewRows(agreementRowColumns).
			AddRow("ag1", "Tenant", "tenant@example.com", "3", "A", "A-301", 1200.0, "accepted", int64(1714000000000), accepted))

	list, err := repo.ListAgreementsByStatus(context.Background(), domain.AgreementAccepted)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].AcceptDate)
	assert.True(t, accepted.Equal(*list[0].AcceptDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAgreements_UpdateStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresAgreementsRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE agreements SET status = \$1, accept_date = \$2 WHERE id = \$3`).
		WithArgs(domain.AgreementAccepted, now, "ag1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE agreements SET status = \$1 WHERE id = \$2`).
		WithArgs(domain.AgreementAccepted, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateAgreementStatus(context.Background(), "ag1", domain.AgreementAccepted, &now))
	err := repo.UpdateAgreementStatus(context.Background(), "missing", domain.AgreementAccepted, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// coupons
// ============================================

func TestPostgresCoupons_UpsertInsertsWhenMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCouponsRepository(db)
	c := &domain.Coupon{Code: "SUMMER10", Discount: 10, Description: "summer"}

	mock.ExpectQuery(`UPDATE coupons SET .* WHERE code = \$1 RETURNING id`).
		WithArgs("SUMMER10", 10.0, "summer", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO coupons`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, created, err := repo.UpsertCoupon(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCoupons_UpsertUpdatesExisting(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCouponsRepository(db)
	c := &domain.Coupon{Code: "SUMMER10", Discount: 15, Expired: true}

	mock.ExpectQuery(`UPDATE coupons SET .* WHERE code = \$1 RETURNING id`).
		WithArgs("SUMMER10", 15.0, "", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))

	id, created, err := repo.UpsertCoupon(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "c1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCoupons_DeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCouponsRepository(db)

	mock.ExpectExec(`DELETE FROM coupons WHERE id = \$1`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteCoupon(context.Background(), "nope"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// payments
// ============================================

func TestPostgresPayments_ListByEmailDecodesMetadata(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPaymentsRepository(db)
	paidAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM payments WHERE email = \$1`).
		WithArgs("tenant@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "price", "month", "transaction_id", "coupon_code", "date", "metadata"}).
			AddRow("p1", "tenant@example.com", 1080.0, "June", "pi_123", "SUMMER10", paidAt, []byte(`{"apartmentNo":"A-301"}`)))

	list, err := repo.ListPaymentsByEmail(context.Background(), "tenant@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pi_123", list[0].TransactionID)
	assert.Equal(t, "A-301", list[0].Metadata["apartmentNo"])
	require.NoError(t, mock.ExpectationsWereMet())
}
