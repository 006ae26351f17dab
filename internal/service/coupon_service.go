package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponService 优惠券（按 code upsert）
type CouponService struct {
	coupons repository.CouponsRepository
	logger  *zap.Logger
}

func NewCouponService(coupons repository.CouponsRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// UpsertCouponRequest body of POST /coupon
type UpsertCouponRequest struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
	Expired     bool    `json:"expired"`
}

// UpsertCoupon creates the coupon or overwrites the one with the same code.
func (s *CouponService) UpsertCoupon(ctx context.Context, req UpsertCouponRequest) (*WriteResult, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, invalid("code is required")
	}
	if req.Discount < 0 || req.Discount > 100 {
		return nil, invalid("discount must be between 0 and 100")
	}

	id, created, err := s.coupons.UpsertCoupon(ctx, &domain.Coupon{
		Code:        code,
		Discount:    req.Discount,
		Description: req.Description,
		Expired:     req.Expired,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert coupon: %w", err)
	}
	if created {
		return upserted(id), nil
	}
	return modified(), nil
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	list, err := s.coupons.ListCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return list, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, couponID string) (*WriteResult, error) {
	if err := s.coupons.DeleteCoupon(ctx, couponID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Coupon")
		}
		return nil, fmt.Errorf("delete coupon: %w", err)
	}
	return deleted(), nil
}

// ValidateCouponRequest body of POST /validate-coupon
type ValidateCouponRequest struct {
	Code  string  `json:"code"`
	Price float64 `json:"price"`
}

// ValidateCouponResponse 折扣计算结果
type ValidateCouponResponse struct {
	Coupon          *domain.Coupon `json:"coupon"`
	OriginalPrice   float64        `json:"originalPrice"`
	DiscountAmount  float64        `json:"discountAmount"`
	DiscountedPrice float64        `json:"discountedPrice"`
}

// ValidateCoupon looks up a live coupon and applies its percentage to price.
// Expired coupons are reported as not found.
func (s *CouponService) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, invalid("code is required")
	}
	if req.Price < 0 {
		return nil, invalid("price must not be negative")
	}

	c, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Coupon")
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if c.Expired {
		return nil, notFound("Coupon")
	}

	price := decimal.NewFromFloat(req.Price)
	discount := price.Mul(decimal.NewFromFloat(c.Discount)).Div(decimal.NewFromInt(100)).Round(2)
	return &ValidateCouponResponse{
		Coupon:          c,
		OriginalPrice:   price.Round(2).InexactFloat64(),
		DiscountAmount:  discount.InexactFloat64(),
		DiscountedPrice: price.Sub(discount).Round(2).InexactFloat64(),
	}, nil
}
