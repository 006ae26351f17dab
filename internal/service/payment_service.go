package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/events"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService 付款记录 + 支付意图
type PaymentService struct {
	payments repository.PaymentsRepository
	gateway  PaymentGateway
	currency string
	events   events.Publisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(payments repository.PaymentsRepository, gateway PaymentGateway, currency string, publisher events.Publisher, logger *zap.Logger) *PaymentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		currency: currency,
		events:   publisher,
		logger:   logger,
		now:      time.Now,
	}
}

// StorePaymentRequest body of POST /make-payment and /store-payment.
// Unknown fields land in Metadata.
type StorePaymentRequest struct {
	Email         string         `json:"email"`
	Price         float64        `json:"price"`
	Month         string         `json:"month"`
	TransactionID string         `json:"transactionId"`
	CouponCode    string         `json:"couponCode"`
	Date          *time.Time     `json:"date"`
	Metadata      map[string]any `json:"-"`
}

func (s *PaymentService) StorePayment(ctx context.Context, req StorePaymentRequest) (*WriteResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if req.Price < 0 {
		return nil, invalid("price must not be negative")
	}

	p := &domain.Payment{
		UserEmail:     email,
		Amount:        req.Price,
		Month:         req.Month,
		TransactionID: req.TransactionID,
		CouponCode:    req.CouponCode,
		Date:          s.now().UTC(),
		Metadata:      req.Metadata,
	}
	if req.Date != nil {
		p.Date = req.Date.UTC()
	}

	id, err := s.payments.CreatePayment(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	p.ID = id

	publish(ctx, s.events, s.logger, events.PaymentStored, p)
	return inserted(id), nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Payment")
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (s *PaymentService) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	list, err := s.payments.ListPaymentsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return list, nil
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	list, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return list, nil
}

// CreatePaymentIntentRequest body of POST /create-payment-intent
type CreatePaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent converts price to the smallest currency unit and asks
// the gateway for an intent.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*CreatePaymentIntentResponse, error) {
	cents := decimal.NewFromFloat(req.Price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 {
		return nil, invalid("price must be positive")
	}
	if s.gateway == nil {
		return nil, errors.New("payment gateway is not configured")
	}
	secret, err := s.gateway.CreatePaymentIntent(ctx, cents, s.currency)
	if err != nil {
		return nil, err
	}
	return &CreatePaymentIntentResponse{ClientSecret: secret}, nil
}
