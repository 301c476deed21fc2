package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	notifications, err := s.notificationService.List(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notifications)
}

// GetUnreadNotifications handles GET /api/notifications/unread
// @Summary List unread notifications
// @Description List the caller's unread notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Notification
// @Router /notifications/unread [get]
func (s *Server) GetUnreadNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	notifications, err := s.notificationService.ListUnread(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notifications)
}

// GetUnreadCount handles GET /api/notifications/unread-count
// @Summary Unread notification count
// @Description Live count of the caller's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{count=int}
// @Router /notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read; idempotent
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "notification ID")
	if err != nil {
		return nil
	}

	notification, err := s.notificationService.MarkRead(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notification)
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
// @Summary Mark all notifications read
// @Description Mark every unread notification as read and return the count affected
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{marked_read=int}
// @Router /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	count, err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"marked_read": count})
}

// ClearReadNotifications handles DELETE /api/notifications/read
// @Summary Clear read notifications
// @Description Delete every read notification and return the count removed
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{deleted=int}
// @Router /notifications/read [delete]
func (s *Server) ClearReadNotifications(c *fiber.Ctx) error {
	count, err := s.notificationService.ClearRead(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": count})
}
