package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/events"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/persistence"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
)

const (
	notificationsChannel = "notificacoes:changed"
	ticketsChannel       = "chamados:changed"
	unreadCachePrefix    = "notificacoes:unread:"
	unreadCacheTTL       = time.Minute
)

// NotificationCenter is the single writer of notification rows. It keeps the
// unread-count cache coherent and fans changes out on the Redis pub/sub
// channel the UI subscribes to.
type NotificationCenter struct {
	notifications repository.NotificationRepository
	redis         *persistence.Redis
	logger        *zap.Logger
}

// NewNotificationCenter creates the service.
func NewNotificationCenter(notifications repository.NotificationRepository, redis *persistence.Redis, logger *zap.Logger) *NotificationCenter {
	return &NotificationCenter{
		notifications: notifications,
		redis:         redis,
		logger:        logger,
	}
}

// Notify inserts a notification and broadcasts the change.
func (n *NotificationCenter) Notify(ctx context.Context, notification *domain.Notification) error {
	if err := n.notifications.Create(ctx, notification); err != nil {
		return err
	}
	n.broadcast(ctx, notification.UserID, notification.TicketID, "created")
	return nil
}

// HasUnread reports whether an unread notification exists for the pair.
func (n *NotificationCenter) HasUnread(ctx context.Context, ticketID, userID string) (bool, error) {
	return n.notifications.HasUnread(ctx, ticketID, userID)
}

// ListUnread returns the user's unread notifications, newest first.
func (n *NotificationCenter) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return n.notifications.ListUnreadByUser(ctx, userID)
}

// UnreadCount returns the number of unread notifications, served from the
// Redis cache when fresh.
func (n *NotificationCenter) UnreadCount(ctx context.Context, userID string) (int, error) {
	if count, ok := n.redis.GetCachedInt(ctx, unreadCachePrefix+userID); ok {
		return count, nil
	}
	count, err := n.notifications.CountUnreadByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := n.redis.SetCached(ctx, unreadCachePrefix+userID, strconv.Itoa(count), unreadCacheTTL); err != nil {
		n.logger.Warn("failed to cache unread count", zap.Error(err))
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (n *NotificationCenter) MarkRead(ctx context.Context, id, userID string) error {
	if err := n.notifications.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	n.broadcast(ctx, userID, "", "read")
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (n *NotificationCenter) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	n.broadcast(ctx, userID, "", "read_all")
	return nil
}

// RegisterHandlers subscribes the center to ticket lifecycle events so the
// realtime feed also carries ticket changes.
func (n *NotificationCenter) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	relay := n.relayTicketEvent
	dispatcher.Subscribe(events.EventTicketCreated, relay)
	dispatcher.Subscribe(events.EventTicketStatusChanged, relay)
	dispatcher.Subscribe(events.EventTicketEscalated, relay)
	dispatcher.Subscribe(events.EventTicketResponseAdded, relay)
	dispatcher.Subscribe(events.EventTicketDeleted, relay)
	dispatcher.Subscribe(events.EventDeadlineExpired, relay)
}

func (n *NotificationCenter) relayTicketEvent(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.redis.Publish(ctx, ticketsChannel, payload); err != nil {
		n.logger.Warn("failed to publish ticket event",
			zap.String("type", string(event.Type)), zap.Error(err))
	}
	return nil
}

func (n *NotificationCenter) broadcast(ctx context.Context, userID, ticketID, kind string) {
	if err := n.redis.Invalidate(ctx, unreadCachePrefix+userID); err != nil {
		n.logger.Warn("failed to invalidate unread cache", zap.Error(err))
	}
	payload, err := json.Marshal(map[string]string{
		"user_id":    userID,
		"chamado_id": ticketID,
		"evento":     kind,
	})
	if err != nil {
		return
	}
	if err := n.redis.Publish(ctx, notificationsChannel, payload); err != nil {
		n.logger.Warn("failed to publish notification change", zap.Error(err))
	}
}
