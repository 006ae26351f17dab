package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PaymentGateway creates payment intents on the card processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (clientSecret string, err error)
}

// paymentIntentResponse 只取需要的字段
type paymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type gatewayErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeClient Stripe 风格 payment_intents API 客户端
type StripeClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewStripeClient requests are not retried: creating an intent is not idempotent.
func NewStripeClient(baseURL, secretKey string, logger *zap.Logger) *StripeClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json")

	return &StripeClient{httpClient: client, logger: logger}
}

func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	var result paymentIntentResponse
	var apiErr gatewayErrorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":                 strconv.FormatInt(amountCents, 10),
			"currency":               currency,
			"payment_method_types[]": "card",
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/payment_intents")
	if err != nil {
		c.logger.Error("payment gateway call failed", zap.Error(err))
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("payment gateway returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("type", apiErr.Error.Type),
			zap.String("msg", apiErr.Error.Message),
		)
		return "", fmt.Errorf("payment gateway error: %s (status: %d)", apiErr.Error.Message, resp.StatusCode())
	}

	c.logger.Info("payment intent created", zap.String("intent_id", result.ID), zap.Int64("amount", amountCents))
	return result.ClientSecret, nil
}
