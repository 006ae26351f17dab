package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/events"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStripeClient_CreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "120050", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "card", r.PostForm.Get("payment_method_types[]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_abc"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_123", zap.NewNop())
	secret, err := client.CreatePaymentIntent(context.Background(), 120050, "usd")
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_abc", secret)
}

func TestStripeClient_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_123", zap.NewNop())
	_, err := client.CreatePaymentIntent(context.Background(), 100, "usd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
	assert.Contains(t, err.Error(), "402")
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	args := m.Called(ctx, amountCents, currency)
	return args.String(0), args.Error(1)
}

func TestPaymentService_CreatePaymentIntentConvertsToCents(t *testing.T) {
	gw := &mockGateway{}
	gw.On("CreatePaymentIntent", mock.Anything, int64(101999), "usd").Return("secret", nil)
	svc := NewPaymentService(repository.NewMemoryPaymentsRepo(), gw, "", nil, zap.NewNop())

	res, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{Price: 1019.99})
	require.NoError(t, err)
	assert.Equal(t, "secret", res.ClientSecret)
	gw.AssertExpectations(t)

	_, err = svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{Price: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentService_CreatePaymentIntentGatewayFailure(t *testing.T) {
	gw := &mockGateway{}
	gw.On("CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("gateway timeout"))
	svc := NewPaymentService(repository.NewMemoryPaymentsRepo(), gw, "usd", nil, zap.NewNop())

	_, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentRequest{Price: 10})
	assert.EqualError(t, err, "gateway timeout")
}

func TestPaymentService_StoreAndRead(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewPaymentService(repository.NewMemoryPaymentsRepo(), nil, "usd", pub, zap.NewNop())
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	_, err := svc.StorePayment(ctx, StorePaymentRequest{Price: 10})
	assert.ErrorIs(t, err, ErrValidation)

	res, err := svc.StorePayment(ctx, StorePaymentRequest{
		Email:         "t@example.com",
		Price:         1080,
		Month:         "June",
		TransactionID: "pi_1",
		Metadata:      map[string]any{"apartmentNo": "A-301"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.InsertedID)
	assert.Equal(t, []string{events.PaymentStored}, pub.types)

	p, err := svc.GetPayment(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, fixed, p.Date)
	assert.Equal(t, "A-301", p.Metadata["apartmentNo"])

	list, err := svc.ListPaymentsByEmail(ctx, "t@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetPayment(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
