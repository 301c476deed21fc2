package service

import (
	"context"
	"time"

	"codelab/internal/models"
	"codelab/internal/repository"

	"github.com/google/uuid"
)

// NotificationService is the read model over dispatcher-created rows.
// All operations are scoped to the requesting recipient; foreign IDs read as
// NotFound rather than PermissionDenied, matching the store-level scoping.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, recipientID, false, limit, offset)
}

// ListUnread returns the recipient's unread notifications, newest first.
func (s *NotificationService) ListUnread(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, recipientID, true, limit, offset)
}

// UnreadCount derives the unread total live from the store; it is never cached.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}

// MarkRead marks one notification as read. Idempotent: read_at is stamped on
// the first call only, later calls change nothing.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID uint, id uuid.UUID) (*models.Notification, error) {
	notification, err := s.notifRepo.GetByID(ctx, id, recipientID)
	if err != nil {
		return nil, orNotFound(err, "Notification", id)
	}
	if notification.IsRead {
		return notification, nil
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := s.notifRepo.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// MarkAllRead marks every unread notification of the recipient as read and
// returns how many were affected. A second immediate call returns zero.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, recipientID, time.Now())
}

// ClearRead deletes every read notification of the recipient and returns the
// number removed.
func (s *NotificationService) ClearRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.DeleteRead(ctx, recipientID)
}
