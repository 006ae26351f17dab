package service

import (
	"context"
	"fmt"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AdminService 管理员看板统计
type AdminService struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewAdminService(store *repository.Store, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, logger: logger}
}

// AdminProfile availability is derived from accepted agreements; apartments
// carry no availability field.
type AdminProfile struct {
	TotalApartments       int     `json:"totalApartments"`
	TotalUsers            int     `json:"totalUsers"`
	TotalMembers          int     `json:"totalMembers"`
	AcceptedAgreements    int     `json:"acceptedAgreements"`
	AvailablePercentage   float64 `json:"availablePercentage"`
	UnavailablePercentage float64 `json:"unavailablePercentage"`
}

func (s *AdminService) Profile(ctx context.Context) (*AdminProfile, error) {
	var p AdminProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.TotalApartments, err = s.store.Apartments.CountApartments(gctx)
		return wrapCount("apartments", err)
	})
	g.Go(func() (err error) {
		p.TotalUsers, err = s.store.Users.CountUsers(gctx, "")
		return wrapCount("users", err)
	})
	g.Go(func() (err error) {
		p.TotalMembers, err = s.store.Users.CountUsers(gctx, domain.RoleMember)
		return wrapCount("members", err)
	})
	g.Go(func() (err error) {
		p.AcceptedAgreements, err = s.store.AcceptedAgreements.CountAcceptedAgreements(gctx)
		return wrapCount("accepted agreements", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.AvailablePercentage, p.UnavailablePercentage = availability(p.TotalApartments, p.AcceptedAgreements)
	return &p, nil
}

// availability percentages, rounded to two places. Occupied is capped at
// the apartment count since accepted records are never deduplicated.
func availability(apartments, accepted int) (available, unavailable float64) {
	if apartments <= 0 {
		return 0, 0
	}
	if accepted > apartments {
		accepted = apartments
	}
	hundred := decimal.NewFromInt(100)
	occupied := decimal.NewFromInt(int64(accepted)).Mul(hundred).Div(decimal.NewFromInt(int64(apartments))).Round(2)
	return hundred.Sub(occupied).InexactFloat64(), occupied.InexactFloat64()
}

func wrapCount(what string, err error) error {
	if err != nil {
		return fmt.Errorf("count %s: %w", what, err)
	}
	return nil
}
