package httpapi

import (
	"net/http"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	users  *service.UserService
	admin  *service.AdminService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, admin *service.AdminService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, admin: admin, logger: logger}
}

func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	view, err := h.users.GetUserWithAgreement(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// Save PUT /user：注册，或对已有用户写入 Requested 状态
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req service.SaveUserRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.users.SaveUser(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if res.Existing != nil {
		writeJSON(w, http.StatusOK, res.Existing)
		return
	}
	writeJSON(w, http.StatusOK, res.Result)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req service.SetRoleRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.users.SetRole(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Profile returns the caller's own user record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Profile(r.Context(), IdentityFrom(r.Context()).Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) AdminProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.admin.Profile(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
