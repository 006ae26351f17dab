package service

import (
	"context"
	"fmt"
	"math"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"go.uber.org/zap"
)

// Pagination defaults for GET /apartment.
const (
	DefaultApartmentPage  = 1
	DefaultApartmentLimit = 6
	maxApartmentLimit     = 100
)

// ApartmentService 公寓查询
type ApartmentService struct {
	apartments repository.ApartmentsRepository
	logger     *zap.Logger
}

func NewApartmentService(apartments repository.ApartmentsRepository, logger *zap.Logger) *ApartmentService {
	return &ApartmentService{apartments: apartments, logger: logger}
}

// ListApartmentsRequest 分页 + 租金区间
type ListApartmentsRequest struct {
	Page    int
	Limit   int
	MinRent float64
	MaxRent float64
}

// ListApartmentsResponse 分页结果
type ListApartmentsResponse struct {
	Items      []*domain.Apartment `json:"items"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

func (s *ApartmentService) ListApartments(ctx context.Context, req ListApartmentsRequest) (*ListApartmentsResponse, error) {
	if req.Page <= 0 {
		req.Page = DefaultApartmentPage
	}
	if req.Limit <= 0 {
		req.Limit = DefaultApartmentLimit
	}
	if req.Limit > maxApartmentLimit {
		req.Limit = maxApartmentLimit
	}
	if req.MinRent > 0 && req.MaxRent > 0 && req.MinRent > req.MaxRent {
		return nil, invalid("minRent must not exceed maxRent")
	}

	filter := domain.ApartmentFilter{MinRent: req.MinRent, MaxRent: req.MaxRent}
	var (
		items []*domain.Apartment
		total int
		err   error
	)
	if req.Page-1 > (math.MaxInt-1)/req.Limit {
		// offset 溢出：页码必然越界，只取 total
		_, total, err = s.apartments.PageApartments(ctx, filter, 0, 1)
		items = []*domain.Apartment{}
	} else {
		items, total, err = s.apartments.PageApartments(ctx, filter, (req.Page-1)*req.Limit, req.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}

	return &ListApartmentsResponse{
		Items:      items,
		Total:      total,
		TotalPages: (total + req.Limit - 1) / req.Limit,
		Page:       req.Page,
		Limit:      req.Limit,
	}, nil
}

// ListAllApartments 不分页
func (s *ApartmentService) ListAllApartments(ctx context.Context) ([]*domain.Apartment, error) {
	list, err := s.apartments.ListApartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return list, nil
}

// Seed inserts apartments when the collection is empty and reports how many
// were written.
func (s *ApartmentService) Seed(ctx context.Context, apartments []domain.Apartment) (int, error) {
	n, err := s.apartments.CountApartments(ctx)
	if err != nil {
		return 0, fmt.Errorf("count apartments: %w", err)
	}
	if n > 0 {
		s.logger.Info("apartments already seeded, skipping", zap.Int("count", n))
		return 0, nil
	}
	for i := range apartments {
		if _, err := s.apartments.CreateApartment(ctx, &apartments[i]); err != nil {
			return i, fmt.Errorf("insert apartment %s: %w", apartments[i].ApartmentNo, err)
		}
	}
	return len(apartments), nil
}
