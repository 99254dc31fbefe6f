package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/events"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/observability"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
)

// SweepService reconciles expired ticket deadlines with notifications: every
// open ticket past its deadline ends up with exactly one outstanding unread
// notification to its owner. The sweep is idempotent and safe to trigger from
// any combination of ticker, cron schedule and manual HTTP call. It never
// mutates ticket fields.
//
// The existence-check and the insert are separate store operations, so two
// overlapping sweeps can race and both insert; see DESIGN.md.
type SweepService struct {
	tickets       repository.TicketRepository
	center        *NotificationCenter
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	metrics       *observability.Metrics
	deadlineHours int
}

// SweepDependencies bundles collaborators for the sweep.
type SweepDependencies struct {
	TicketRepo    repository.TicketRepository
	Center        *NotificationCenter
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	DeadlineHours int
}

// SweepResult summarizes one reconciliation run.
type SweepResult struct {
	TicketsChecked       int
	NotificationsCreated int
}

// NewSweepService constructs the service.
func NewSweepService(deps SweepDependencies) *SweepService {
	hours := deps.DeadlineHours
	if hours <= 0 {
		hours = 72
	}
	return &SweepService{
		tickets:       deps.TicketRepo,
		center:        deps.Center,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		deadlineHours: hours,
	}
}

// ReconcileExpired scans tickets whose deadline has passed and whose status
// is not terminal, and inserts an unread notification for each (ticket,
// owner) pair that does not already have one. Tickets are processed
// independently: a failure on one is logged and does not abort the rest.
func (s *SweepService) ReconcileExpired(ctx context.Context) (SweepResult, error) {
	now := time.Now()
	expired, err := s.tickets.ListExpired(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list expired tickets: %w", err)
	}

	result := SweepResult{TicketsChecked: len(expired)}
	for i := range expired {
		ticket := &expired[i]
		exists, err := s.center.HasUnread(ctx, ticket.ID, ticket.OwnerID)
		if err != nil {
			s.logger.Error("sweep: existence check failed",
				zap.String("chamado_id", ticket.ID), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		notification := &domain.Notification{
			UserID:   ticket.OwnerID,
			TicketID: ticket.ID,
			Message:  s.expiredMessage(ticket),
		}
		if err := s.center.Notify(ctx, notification); err != nil {
			s.logger.Error("sweep: failed to create notification",
				zap.String("chamado_id", ticket.ID), zap.Error(err))
			continue
		}
		result.NotificationsCreated++
		s.publishExpired(ctx, ticket)
	}

	s.metrics.RecordSweep(result.NotificationsCreated)
	s.logger.Info("sweep completed",
		zap.Int("chamados_verificados", result.TicketsChecked),
		zap.Int("notificacoes_enviadas", result.NotificationsCreated))
	return result, nil
}

func (s *SweepService) expiredMessage(ticket *domain.Ticket) string {
	return fmt.Sprintf(
		"PRAZO EXPIRADO: O chamado %q (%s) ultrapassou o prazo de %dh úteis. Por favor, atualize o status.",
		ticket.Title, ticket.DisplayNumber(), s.deadlineHours)
}

func (s *SweepService) publishExpired(ctx context.Context, ticket *domain.Ticket) {
	if s.dispatcher == nil || ticket.DeadlineAt == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDeadlineExpired,
		TicketID:  ticket.ID,
		UserID:    ticket.OwnerID,
		Timestamp: time.Now(),
		Payload: events.DeadlineExpiredPayload{
			Number:   ticket.DisplayNumber(),
			Title:    ticket.Title,
			Deadline: *ticket.DeadlineAt,
		},
	})
}
