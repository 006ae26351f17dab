package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers_CreateUserKeepsFirstEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsersRepo()

	id1, created, err := repo.CreateUser(ctx, &domain.User{Email: "a@example.com", Name: "First", Role: domain.RoleGeneral})
	require.NoError(t, err)
	assert.True(t, created)

	id2, created, err := repo.CreateUser(ctx, &domain.User{Email: "a@example.com", Name: "Second", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)

	u, err := repo.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", u.Name)
	assert.Equal(t, domain.RoleGeneral, u.Role)

	n, err := repo.CountUsers(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryUsers_EmailMatchIsExact(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsersRepo()
	_, _, err := repo.CreateUser(ctx, &domain.User{Email: "Case@Example.com", Role: domain.RoleGeneral})
	require.NoError(t, err)

	_, err = repo.GetUserByEmail(ctx, "case@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers_PatchDoesNotLeakPointers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsersRepo()
	_, _, err := repo.CreateUser(ctx, &domain.User{Email: "m@example.com", Role: domain.RoleGeneral})
	require.NoError(t, err)

	role := domain.RoleMember
	snap := &domain.AgreementSnapshot{ApartmentNo: "A-1", Rent: 900, Status: domain.AgreementAccepted}
	require.NoError(t, repo.UpdateUserByEmail(ctx, "m@example.com", domain.UserPatch{Role: &role, Agreement: snap}))

	snap.ApartmentNo = "mutated"
	got, err := repo.GetUserByEmail(ctx, "m@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, got.Role)
	require.NotNil(t, got.Agreement)
	assert.Equal(t, "A-1", got.Agreement.ApartmentNo)

	got.Agreement.ApartmentNo = "also mutated"
	again, _ := repo.GetUserByEmail(ctx, "m@example.com")
	assert.Equal(t, "A-1", again.Agreement.ApartmentNo)

	assert.ErrorIs(t, repo.UpdateUserByEmail(ctx, "none@example.com", domain.UserPatch{Role: &role}), ErrNotFound)
}

func TestMemoryApartments_Page(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApartmentsRepo()
	for i := 1; i <= 10; i++ {
		_, err := repo.CreateApartment(ctx, &domain.Apartment{
			ApartmentNo: fmt.Sprintf("A-%d", i),
			Rent:        float64(i * 100),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		filter    domain.ApartmentFilter
		offset    int
		limit     int
		wantTotal int
		wantFirst string
		wantLen   int
	}{
		{"first page", domain.ApartmentFilter{}, 0, 6, 10, "A-1", 6},
		{"second page", domain.ApartmentFilter{}, 6, 6, 10, "A-7", 4},
		{"past the end", domain.ApartmentFilter{}, 12, 6, 10, "", 0},
		{"rent window", domain.ApartmentFilter{MinRent: 300, MaxRent: 500}, 0, 6, 3, "A-3", 3},
		{"min only", domain.ApartmentFilter{MinRent: 950}, 0, 6, 1, "A-10", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.PageApartments(ctx, tt.filter, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, items[0].ApartmentNo)
			}
		})
	}
}

func TestMemoryAgreements_StatusFlow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAgreementsRepo()

	pending, err := repo.ListAgreementsByStatus(ctx, domain.AgreementPending)
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)

	id, err := repo.CreateAgreement(ctx, &domain.Agreement{
		UserEmail: "t@example.com", ApartmentNo: "A-301", Rent: 1200, Status: domain.AgreementPending,
	})
	require.NoError(t, err)

	found, err := repo.FindAgreement(ctx, "t@example.com", "A-301")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = repo.FindAgreement(ctx, "t@example.com", "A-302")
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now()
	require.NoError(t, repo.UpdateAgreementStatus(ctx, id, domain.AgreementAccepted, &now))
	pending, _ = repo.ListAgreementsByStatus(ctx, domain.AgreementPending)
	assert.Empty(t, pending)

	got, err := repo.GetAgreement(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.AgreementAccepted, got.Status)
	require.NotNil(t, got.AcceptDate)

	assert.ErrorIs(t, repo.UpdateAgreementStatus(ctx, "missing", domain.AgreementAccepted, nil), ErrNotFound)
}

func TestMemoryAcceptedAgreements_AppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAcceptedAgreementsRepo()
	a := &domain.Agreement{ID: "ag1", UserEmail: "t@example.com", ApartmentNo: "A-1", Status: domain.AgreementPending}

	_, err := repo.CreateAcceptedAgreement(ctx, domain.NewAcceptedAgreement(a, time.Now()))
	require.NoError(t, err)
	_, err = repo.CreateAcceptedAgreement(ctx, domain.NewAcceptedAgreement(a, time.Now()))
	require.NoError(t, err)

	list, err := repo.ListAcceptedAgreements(ctx, "t@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, domain.AgreementAccepted, list[0].Status)

	n, err := repo.CountAcceptedAgreements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryCoupons_UpsertByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCouponsRepo()

	id1, created, err := repo.UpsertCoupon(ctx, &domain.Coupon{Code: "WIND5", Discount: 5})
	require.NoError(t, err)
	assert.True(t, created)

	id2, created, err := repo.UpsertCoupon(ctx, &domain.Coupon{Code: "WIND5", Discount: 7, Expired: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id1, id2)

	list, err := repo.ListCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7.0, list[0].Discount)
	assert.True(t, list[0].Expired)

	require.NoError(t, repo.DeleteCoupon(ctx, id1))
	assert.ErrorIs(t, repo.DeleteCoupon(ctx, id1), ErrNotFound)
}

func TestMemoryAnnouncements_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAnnouncementsRepo()
	_, _ = repo.CreateAnnouncement(ctx, &domain.Announcement{Title: "water outage"})
	_, _ = repo.CreateAnnouncement(ctx, &domain.Announcement{Title: "lift repaired"})

	list, err := repo.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "lift repaired", list[0].Title)
}
