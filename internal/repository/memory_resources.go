package repository

import (
	"context"
	"sync"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// MemoryApartmentsRepo apartments in memory.
type MemoryApartmentsRepo struct {
	mu    sync.RWMutex
	items []*domain.Apartment
}

func NewMemoryApartmentsRepo() *MemoryApartmentsRepo {
	return &MemoryApartmentsRepo{}
}

var _ ApartmentsRepository = (*MemoryApartmentsRepo)(nil)

func (r *MemoryApartmentsRepo) ListApartments(_ context.Context) ([]*domain.Apartment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Apartment, 0, len(r.items))
	for _, a := range r.items {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r *MemoryApartmentsRepo) PageApartments(_ context.Context, filter domain.ApartmentFilter, offset, limit int) ([]*domain.Apartment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Apartment, 0, len(r.items))
	for _, a := range r.items {
		if filter.MinRent > 0 && a.Rent < filter.MinRent {
			continue
		}
		if filter.MaxRent > 0 && a.Rent > filter.MaxRent {
			continue
		}
		matched = append(matched, a)
	}

	total := len(matched)
	start, end := clampPage(offset, limit, total)
	out := make([]*domain.Apartment, 0, end-start)
	for _, a := range matched[start:end] {
		c := *a
		out = append(out, &c)
	}
	return out, total, nil
}

func (r *MemoryApartmentsRepo) CountApartments(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryApartmentsRepo) CreateApartment(_ context.Context, a *domain.Apartment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	c.ID = uuid.NewString()
	r.items = append(r.items, &c)
	return c.ID, nil
}

// MemoryPaymentsRepo payments in memory.
type MemoryPaymentsRepo struct {
	mu    sync.RWMutex
	items []*domain.Payment
}

func NewMemoryPaymentsRepo() *MemoryPaymentsRepo {
	return &MemoryPaymentsRepo{}
}

var _ PaymentsRepository = (*MemoryPaymentsRepo)(nil)

func (r *MemoryPaymentsRepo) CreatePayment(_ context.Context, p *domain.Payment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	c.ID = uuid.NewString()
	r.items = append(r.items, &c)
	return c.ID, nil
}

func (r *MemoryPaymentsRepo) GetPayment(_ context.Context, paymentID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.ID == paymentID {
			c := *p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPaymentsRepo) ListPaymentsByEmail(_ context.Context, email string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.Payment{}
	for _, p := range r.items {
		if p.UserEmail == email {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MemoryPaymentsRepo) ListPayments(_ context.Context) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Payment, 0, len(r.items))
	for _, p := range r.items {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

// MemoryCouponsRepo coupons in memory.
type MemoryCouponsRepo struct {
	mu    sync.RWMutex
	items []*domain.Coupon
}

func NewMemoryCouponsRepo() *MemoryCouponsRepo {
	return &MemoryCouponsRepo{}
}

var _ CouponsRepository = (*MemoryCouponsRepo)(nil)

func (r *MemoryCouponsRepo) UpsertCoupon(_ context.Context, c *domain.Coupon) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Code == c.Code {
			id := existing.ID
			*existing = *c
			existing.ID = id
			return id, false, nil
		}
	}
	n := *c
	n.ID = uuid.NewString()
	r.items = append(r.items, &n)
	return n.ID, true, nil
}

func (r *MemoryCouponsRepo) GetCouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCouponsRepo) ListCoupons(_ context.Context) ([]*domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Coupon, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryCouponsRepo) DeleteCoupon(_ context.Context, couponID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.items {
		if c.ID == couponID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryAnnouncementsRepo announcements in memory.
type MemoryAnnouncementsRepo struct {
	mu    sync.RWMutex
	items []*domain.Announcement
}

func NewMemoryAnnouncementsRepo() *MemoryAnnouncementsRepo {
	return &MemoryAnnouncementsRepo{}
}

var _ AnnouncementsRepository = (*MemoryAnnouncementsRepo)(nil)

func (r *MemoryAnnouncementsRepo) CreateAnnouncement(_ context.Context, a *domain.Announcement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	c.ID = uuid.NewString()
	r.items = append(r.items, &c)
	return c.ID, nil
}

func (r *MemoryAnnouncementsRepo) ListAnnouncements(_ context.Context) ([]*domain.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// newest first
	out := make([]*domain.Announcement, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		c := *r.items[i]
		out = append(out, &c)
	}
	return out, nil
}

// NewMemoryStore builds a Store backed entirely by process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users:              NewMemoryUsersRepo(),
		Apartments:         NewMemoryApartmentsRepo(),
		Agreements:         NewMemoryAgreementsRepo(),
		AcceptedAgreements: NewMemoryAcceptedAgreementsRepo(),
		Payments:           NewMemoryPaymentsRepo(),
		Coupons:            NewMemoryCouponsRepo(),
		Announcements:      NewMemoryAnnouncementsRepo(),
	}
}
