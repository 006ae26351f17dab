package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
)

// ErrNotFound is returned when no document matches the lookup or update filter.
var ErrNotFound = errors.New("document not found")

// UsersRepository users 集合
type UsersRepository interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// CountUsers counts users with the given role; empty role counts all.
	CountUsers(ctx context.Context, role string) (int, error)
	// CreateUser inserts u. If the email already exists the existing id is
	// returned with created=false.
	CreateUser(ctx context.Context, u *domain.User) (id string, created bool, err error)
	UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error
	UpdateUserByEmail(ctx context.Context, email string, patch domain.UserPatch) error
}

// ApartmentsRepository apartments 集合（只读，seed 除外）
type ApartmentsRepository interface {
	ListApartments(ctx context.Context) ([]*domain.Apartment, error)
	PageApartments(ctx context.Context, filter domain.ApartmentFilter, offset, limit int) (items []*domain.Apartment, total int, err error)
	CountApartments(ctx context.Context) (int, error)
	CreateApartment(ctx context.Context, a *domain.Apartment) (string, error)
}

// AgreementsRepository agreements 集合
type AgreementsRepository interface {
	GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, error)
	// FindAgreement matches on (userEmail, apartmentNo) regardless of status.
	FindAgreement(ctx context.Context, userEmail, apartmentNo string) (*domain.Agreement, error)
	ListAgreementsByStatus(ctx context.Context, status string) ([]*domain.Agreement, error)
	CreateAgreement(ctx context.Context, a *domain.Agreement) (string, error)
	// UpdateAgreementStatus sets status, and acceptDate when non-nil.
	UpdateAgreementStatus(ctx context.Context, agreementID, status string, acceptDate *time.Time) error
}

// AcceptedAgreementsRepository accepted-agreements 集合（仅追加）
type AcceptedAgreementsRepository interface {
	CreateAcceptedAgreement(ctx context.Context, a *domain.AcceptedAgreement) (string, error)
	ListAcceptedAgreements(ctx context.Context, userEmail string) ([]*domain.AcceptedAgreement, error)
	CountAcceptedAgreements(ctx context.Context) (int, error)
}

// PaymentsRepository payments 集合（写一次）
type PaymentsRepository interface {
	CreatePayment(ctx context.Context, p *domain.Payment) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
	ListPayments(ctx context.Context) ([]*domain.Payment, error)
}

// CouponsRepository coupons 集合，按 code upsert
type CouponsRepository interface {
	// UpsertCoupon updates the coupon with c.Code or inserts it.
	UpsertCoupon(ctx context.Context, c *domain.Coupon) (id string, created bool, err error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
}

// AnnouncementsRepository announcements 集合
type AnnouncementsRepository interface {
	CreateAnnouncement(ctx context.Context, a *domain.Announcement) (string, error)
	ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error)
}

// Store bundles the collection handles of one backend. It is constructed once
// at startup and passed to services explicitly.
type Store struct {
	Users              UsersRepository
	Apartments         ApartmentsRepository
	Agreements         AgreementsRepository
	AcceptedAgreements AcceptedAgreementsRepository
	Payments           PaymentsRepository
	Coupons            CouponsRepository
	Announcements      AnnouncementsRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func clampPage(offset, limit, total int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	start = offset
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}
