package service

import (
	"context"
	"time"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/sla"
)

// ReportSummary aggregates ticket counts over a creation-date range.
type ReportSummary struct {
	From             string
	To               string
	ByStatus         map[string]int
	ByLevel          map[string]int
	ByEstruturante   map[string]int
	ResponsesInRange int
	ExpiredOpen      int
}

// ReportService produces the aggregates behind the reports screen.
type ReportService struct {
	tickets   repository.TicketRepository
	responses repository.ResponseRepository
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, responses repository.ResponseRepository) *ReportService {
	return &ReportService{tickets: tickets, responses: responses}
}

// Summary computes the counts for tickets created between the local days of
// from and to, inclusive. Day boundaries are normalized with the SLA
// calendar helpers before being sent to the store.
func (s *ReportService) Summary(ctx context.Context, from, to time.Time) (*ReportSummary, error) {
	fromISO := sla.StartOfDayISO(from)
	toISO := sla.EndOfDayISO(to)

	byStatus, err := s.tickets.CountsByColumn(ctx, "status", fromISO, toISO)
	if err != nil {
		return nil, err
	}
	byLevel, err := s.tickets.CountsByColumn(ctx, "nivel", fromISO, toISO)
	if err != nil {
		return nil, err
	}
	byEstruturante, err := s.tickets.CountsByColumn(ctx, "estruturante", fromISO, toISO)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.CountByTicketOwner(ctx, fromISO, toISO)
	if err != nil {
		return nil, err
	}
	expired, err := s.tickets.CountExpiredOpen(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	return &ReportSummary{
		From:             fromISO,
		To:               toISO,
		ByStatus:         byStatus,
		ByLevel:          byLevel,
		ByEstruturante:   byEstruturante,
		ResponsesInRange: responses,
		ExpiredOpen:      expired,
	}, nil
}
