package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/api/dto"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/auth"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
	apperrors "github.com/Rafaeloliveira945093/support-script-hub/pkg/util"
)

// NotificationsHandler exposes the user's notification feed.
type NotificationsHandler struct {
	center *service.NotificationCenter
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(center *service.NotificationCenter) *NotificationsHandler {
	return &NotificationsHandler{center: center}
}

// ListUnread GET /notifications.
func (h *NotificationsHandler) ListUnread(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	notifications, err := h.center.ListUnread(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			TicketID:  n.TicketID,
			Message:   n.Message,
			Viewed:    !n.Unread,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// UnreadCount GET /notifications/count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	count, err := h.center.UnreadCount(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.center.MarkRead(c.Context(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": true}})
}

// MarkAllRead POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.center.MarkAllRead(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": true}})
}
