package httpapi

import (
	"net/http"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

type AgreementHandler struct {
	agreements *service.AgreementService
	logger     *zap.Logger
}

func NewAgreementHandler(agreements *service.AgreementService, logger *zap.Logger) *AgreementHandler {
	return &AgreementHandler{agreements: agreements, logger: logger}
}

func (h *AgreementHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitAgreementRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.agreements.Submit(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AgreementHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.agreements.ListPending(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// SetStatus PUT /agreement/status (只需登录，不校验角色)
func (h *AgreementHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req service.SetStatusRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.agreements.SetStatus(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AgreementHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	list, err := h.agreements.ListAccepted(r.Context(), r.PathValue("userEmail"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}
