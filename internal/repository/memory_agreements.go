package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// MemoryAgreementsRepo agreements in memory. No uniqueness is enforced on
// (userEmail, apartmentNo); callers pre-check with FindAgreement.
type MemoryAgreementsRepo struct {
	mu    sync.RWMutex
	items []*domain.Agreement
}

func NewMemoryAgreementsRepo() *MemoryAgreementsRepo {
	return &MemoryAgreementsRepo{}
}

var _ AgreementsRepository = (*MemoryAgreementsRepo)(nil)

func copyAgreement(a *domain.Agreement) *domain.Agreement {
	c := *a
	if a.AcceptDate != nil {
		t := *a.AcceptDate
		c.AcceptDate = &t
	}
	return &c
}

func (r *MemoryAgreementsRepo) GetAgreement(_ context.Context, agreementID string) (*domain.Agreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if a.ID == agreementID {
			return copyAgreement(a), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAgreementsRepo) FindAgreement(_ context.Context, userEmail, apartmentNo string) (*domain.Agreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if a.UserEmail == userEmail && a.ApartmentNo == apartmentNo {
			return copyAgreement(a), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAgreementsRepo) ListAgreementsByStatus(_ context.Context, status string) ([]*domain.Agreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.Agreement{}
	for _, a := range r.items {
		if a.Status == status {
			out = append(out, copyAgreement(a))
		}
	}
	return out, nil
}

func (r *MemoryAgreementsRepo) CreateAgreement(_ context.Context, a *domain.Agreement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := copyAgreement(a)
	c.ID = uuid.NewString()
	r.items = append(r.items, c)
	return c.ID, nil
}

func (r *MemoryAgreementsRepo) UpdateAgreementStatus(_ context.Context, agreementID, status string, acceptDate *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.ID != agreementID {
			continue
		}
		a.Status = status
		if acceptDate != nil {
			t := *acceptDate
			a.AcceptDate = &t
		}
		return nil
	}
	return ErrNotFound
}

// MemoryAcceptedAgreementsRepo append-only history in memory.
type MemoryAcceptedAgreementsRepo struct {
	mu    sync.RWMutex
	items []*domain.AcceptedAgreement
}

func NewMemoryAcceptedAgreementsRepo() *MemoryAcceptedAgreementsRepo {
	return &MemoryAcceptedAgreementsRepo{}
}

var _ AcceptedAgreementsRepository = (*MemoryAcceptedAgreementsRepo)(nil)

func (r *MemoryAcceptedAgreementsRepo) CreateAcceptedAgreement(_ context.Context, a *domain.AcceptedAgreement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	c.ID = uuid.NewString()
	r.items = append(r.items, &c)
	return c.ID, nil
}

func (r *MemoryAcceptedAgreementsRepo) ListAcceptedAgreements(_ context.Context, userEmail string) ([]*domain.AcceptedAgreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*domain.AcceptedAgreement{}
	for _, a := range r.items {
		if a.UserEmail == userEmail {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MemoryAcceptedAgreementsRepo) CountAcceptedAgreements(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}
