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

	"go.uber.org/zap"
)

// AgreementService 租赁申请流程：pending -> accepted
//
// Neither the duplicate check nor the acceptance sequence is atomic.
// Concurrent submissions for one (email, apartment) can both insert, and a
// failure mid-acceptance leaves earlier writes in place.
type AgreementService struct {
	agreements repository.AgreementsRepository
	accepted   repository.AcceptedAgreementsRepository
	users      repository.UsersRepository
	events     events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewAgreementService(store *repository.Store, publisher events.Publisher, logger *zap.Logger) *AgreementService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AgreementService{
		agreements: store.Agreements,
		accepted:   store.AcceptedAgreements,
		users:      store.Users,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitAgreementRequest 申请表单
type SubmitAgreementRequest struct {
	UserName    string  `json:"userName"`
	UserEmail   string  `json:"userEmail"`
	FloorNo     string  `json:"floorNo"`
	BlockName   string  `json:"blockName"`
	ApartmentNo string  `json:"apartmentNo"`
	Rent        float64 `json:"rent"`
}

// Submit inserts a pending agreement unless one already exists for the same
// user and apartment, whatever its status.
func (s *AgreementService) Submit(ctx context.Context, req SubmitAgreementRequest) (*WriteResult, error) {
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.ApartmentNo = strings.TrimSpace(req.ApartmentNo)
	if req.UserEmail == "" {
		return nil, invalid("userEmail is required")
	}
	if req.ApartmentNo == "" {
		return nil, invalid("apartmentNo is required")
	}

	_, err := s.agreements.FindAgreement(ctx, req.UserEmail, req.ApartmentNo)
	switch {
	case err == nil:
		return nil, ErrDuplicateApplication
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing agreement: %w", err)
	}

	a := &domain.Agreement{
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		FloorNo:     req.FloorNo,
		BlockName:   req.BlockName,
		ApartmentNo: req.ApartmentNo,
		Rent:        req.Rent,
		Status:      domain.AgreementPending,
		Timestamp:   s.now().UnixMilli(),
	}
	id, err := s.agreements.CreateAgreement(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("insert agreement: %w", err)
	}
	a.ID = id

	publish(ctx, s.events, s.logger, events.AgreementSubmitted, a)
	return inserted(id), nil
}

// ListPending 管理员审核队列
func (s *AgreementService) ListPending(ctx context.Context) ([]*domain.Agreement, error) {
	list, err := s.agreements.ListAgreementsByStatus(ctx, domain.AgreementPending)
	if err != nil {
		return nil, fmt.Errorf("list pending agreements: %w", err)
	}
	return list, nil
}

// SetStatusRequest body of PUT /agreement/status.
// UserEmail is the account promoted on acceptance. It is taken as given and
// not checked against the agreement's own userEmail.
type SetStatusRequest struct {
	AgreementID string `json:"id"`
	Status      string `json:"status"`
	UserEmail   string `json:"userEmail"`
}

// SetStatus updates an agreement's status. Accepting also records the
// historical copy and promotes the user to member with a snapshot of it.
func (s *AgreementService) SetStatus(ctx context.Context, req SetStatusRequest) (*WriteResult, error) {
	if req.AgreementID == "" {
		return nil, invalid("id is required")
	}
	switch req.Status {
	case domain.AgreementPending:
	case domain.AgreementAccepted:
		if strings.TrimSpace(req.UserEmail) == "" {
			return nil, invalid("userEmail is required to accept an agreement")
		}
	default:
		return nil, invalid("unsupported status %q", req.Status)
	}

	if _, err := s.agreements.GetAgreement(ctx, req.AgreementID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Agreement")
		}
		return nil, fmt.Errorf("load agreement: %w", err)
	}

	var acceptDate *time.Time
	acceptedAt := s.now().UTC()
	if req.Status == domain.AgreementAccepted {
		acceptDate = &acceptedAt
	}
	if err := s.agreements.UpdateAgreementStatus(ctx, req.AgreementID, req.Status, acceptDate); err != nil {
		s.logger.Error("agreement status update failed",
			zap.String("step", "update_status"),
			zap.String("agreement_id", req.AgreementID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update agreement status: %w", err)
	}
	if req.Status != domain.AgreementAccepted {
		return modified(), nil
	}

	// 以下步骤非事务，任何一步失败都会留下部分写入
	updated, err := s.agreements.GetAgreement(ctx, req.AgreementID)
	if err != nil {
		s.logger.Error("agreement acceptance incomplete",
			zap.String("step", "reload_agreement"),
			zap.String("agreement_id", req.AgreementID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("reload agreement: %w", err)
	}

	record := domain.NewAcceptedAgreement(updated, acceptedAt)
	recordID, err := s.accepted.CreateAcceptedAgreement(ctx, record)
	if err != nil {
		s.logger.Error("agreement acceptance incomplete",
			zap.String("step", "insert_accepted"),
			zap.String("agreement_id", req.AgreementID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("insert accepted agreement: %w", err)
	}
	record.ID = recordID

	role := domain.RoleMember
	patch := domain.UserPatch{Role: &role, Agreement: record.Snapshot()}
	promoted := true
	if err := s.users.UpdateUserByEmail(ctx, req.UserEmail, patch); errors.Is(err, repository.ErrNotFound) {
		// 无此用户：匹配 0 条，不算失败
		promoted = false
		s.logger.Warn("accepted agreement matched no user to promote",
			zap.String("step", "promote_user"),
			zap.String("agreement_id", req.AgreementID),
			zap.String("user_email", req.UserEmail),
		)
	} else if err != nil {
		s.logger.Error("agreement acceptance incomplete",
			zap.String("step", "promote_user"),
			zap.String("agreement_id", req.AgreementID),
			zap.String("user_email", req.UserEmail),
			zap.Error(err),
		)
		return nil, fmt.Errorf("promote user %s: %w", req.UserEmail, err)
	}

	if promoted && req.UserEmail != updated.UserEmail {
		s.logger.Warn("accepted agreement promoted a different user than the applicant",
			zap.String("agreement_id", req.AgreementID),
			zap.String("applicant", updated.UserEmail),
			zap.String("promoted", req.UserEmail),
		)
	}

	publish(ctx, s.events, s.logger, events.AgreementAccepted, record)
	if !promoted {
		return &WriteResult{Acknowledged: true}, nil
	}
	return modified(), nil
}

// ListAccepted 用户的历史签约记录
func (s *AgreementService) ListAccepted(ctx context.Context, userEmail string) ([]*domain.AcceptedAgreement, error) {
	list, err := s.accepted.ListAcceptedAgreements(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("list accepted agreements: %w", err)
	}
	return list, nil
}

// publish is fire-and-forget; a failed publish never fails the request.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, eventType string, data any) {
	if err := p.Publish(ctx, eventType, data); err != nil {
		logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
