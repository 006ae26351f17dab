package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"go.uber.org/zap"
)

// UserService 用户注册、查询、角色管理
type UserService struct {
	users  repository.UsersRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(users repository.UsersRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger, now: time.Now}
}

// agreementPlaceholder is shown for users who never had an agreement accepted.
var agreementPlaceholder = map[string]string{
	"acceptDate":  "none",
	"floorNo":     "none",
	"blockName":   "none",
	"apartmentNo": "none",
}

// UserView 用户 + 签约快照（无快照时为占位符）
type UserView struct {
	domain.User
	Agreement any `json:"agreement"`
}

func (s *UserService) GetUserWithAgreement(ctx context.Context, email string) (*UserView, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	view := &UserView{User: *u, Agreement: agreementPlaceholder}
	if u.Agreement != nil {
		view.Agreement = u.Agreement
	}
	return view, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmail(ctx, email)
}

// UserRole is the lookup behind the role guard. It hits the store on every call.
func (s *UserService) UserRole(ctx context.Context, email string) (string, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *UserService) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SaveUserRequest body of PUT /user. A role in the body is ignored: new
// accounts always start as general.
type SaveUserRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

// SaveUserResponse holds exactly one of Existing or Result.
type SaveUserResponse struct {
	Existing *domain.User
	Result   *WriteResult
}

// SaveUser registers a new user. For an existing user only a "Requested"
// status is written; anything else returns the stored record unchanged.
func (s *UserService) SaveUser(ctx context.Context, req SaveUserRequest) (*SaveUserResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, invalid("email is required")
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if req.Status != domain.UserStatusRequested {
			return &SaveUserResponse{Existing: existing}, nil
		}
		status := domain.UserStatusRequested
		if err := s.users.UpdateUserByEmail(ctx, email, domain.UserPatch{Status: &status}); err != nil {
			return nil, fmt.Errorf("update user status: %w", err)
		}
		return &SaveUserResponse{Result: modified()}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get user: %w", err)
	}

	u := &domain.User{
		Email:     email,
		Name:      req.Name,
		ImageURL:  req.Image,
		Role:      domain.RoleGeneral,
		Status:    req.Status,
		Timestamp: s.now().UnixMilli(),
	}
	id, created, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if !created {
		// registered concurrently by another request
		return &SaveUserResponse{Result: &WriteResult{Acknowledged: true, MatchedCount: 1}}, nil
	}
	s.logger.Info("user registered", zap.String("email", email), zap.String("user_id", id))
	return &SaveUserResponse{Result: upserted(id)}, nil
}

// UpdateUserRequest body of PUT /user/{id}; absent fields are left unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Image  *string `json:"image"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*WriteResult, error) {
	if req.Role != nil && !validRole(*req.Role) {
		return nil, invalid("unknown role %q", *req.Role)
	}
	patch := domain.UserPatch{Name: req.Name, ImageURL: req.Image, Role: req.Role, Status: req.Status}
	if err := s.users.UpdateUser(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if patch.Empty() {
		return &WriteResult{Acknowledged: true, MatchedCount: 1}, nil
	}
	return modified(), nil
}

// SetRoleRequest body of PUT /user/role
type SetRoleRequest struct {
	Email     string                    `json:"email"`
	Role      string                    `json:"role"`
	Agreement *domain.AgreementSnapshot `json:"agreement,omitempty"`
}

func (s *UserService) SetRole(ctx context.Context, req SetRoleRequest) (*WriteResult, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, invalid("email is required")
	}
	if !validRole(req.Role) {
		return nil, invalid("unknown role %q", req.Role)
	}
	role := req.Role
	patch := domain.UserPatch{Role: &role, Agreement: req.Agreement}
	if err := s.users.UpdateUserByEmail(ctx, req.Email, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("set user role: %w", err)
	}
	s.logger.Info("user role changed", zap.String("email", req.Email), zap.String("role", req.Role))
	return modified(), nil
}

func validRole(role string) bool {
	switch role {
	case domain.RoleGeneral, domain.RoleMember, domain.RoleAdmin:
		return true
	}
	return false
}
