package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the only error shape the API returns.
type errorBody struct {
	Message string `json:"message"`
}

// writeError maps service errors to status codes. Unknown errors are storage
// failures: 500 with the message passed through.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		msg = service.ErrUnauthorized.Error()
	case errors.Is(err, service.ErrDuplicateApplication):
		status = http.StatusBadRequest
		msg = service.ErrDuplicateApplication.Error()
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
	}
	writeJSON(w, status, errorBody{Message: msg})
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

// readBodyJSON 空 body 视为 {}
func readBodyJSON(r *http.Request, out any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeOr400 reads the JSON body, answering 400 itself on malformed input.
func decodeOr400(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return false
	}
	return true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
