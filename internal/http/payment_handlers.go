package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// storePaymentFields are decoded into StorePaymentRequest; any other body
// field is kept as metadata.
var storePaymentFields = []string{"email", "price", "month", "transactionId", "couponCode", "date"}

// Store POST /make-payment 与 /store-payment
func (h *PaymentHandler) Store(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}
	var req service.StorePaymentRequest
	var extra map[string]any
	if len(body) > 0 {
		if json.Unmarshal(body, &req) != nil || json.Unmarshal(body, &extra) != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
			return
		}
	}
	for _, k := range storePaymentFields {
		delete(extra, k)
	}
	if len(extra) > 0 {
		req.Metadata = extra
	}

	res, err := h.payments.StorePayment(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.ListPaymentsByEmail(r.Context(), r.PathValue("userEmail"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.ListPayments(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// Export GET /payments/export，返回 xlsx
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.ListPayments(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	data, err := GeneratePaymentsExport(list)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("generate payments export: %w", err))
		return
	}
	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePaymentIntentRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.payments.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
