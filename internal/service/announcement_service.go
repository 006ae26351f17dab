package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/events"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"go.uber.org/zap"
)

// AnnouncementService 公告
type AnnouncementService struct {
	announcements repository.AnnouncementsRepository
	events        events.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewAnnouncementService(announcements repository.AnnouncementsRepository, publisher events.Publisher, logger *zap.Logger) *AnnouncementService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AnnouncementService{announcements: announcements, events: publisher, logger: logger, now: time.Now}
}

type CreateAnnouncementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, req CreateAnnouncementRequest) (*WriteResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title is required")
	}
	a := &domain.Announcement{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.announcements.CreateAnnouncement(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}
	a.ID = id

	publish(ctx, s.events, s.logger, events.AnnouncementCreated, a)
	return inserted(id), nil
}

// ListAnnouncements newest first.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error) {
	list, err := s.announcements.ListAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return list, nil
}
