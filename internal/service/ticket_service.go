package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/events"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/sla"
	apperrors "github.com/Rafaeloliveira945093/support-script-hub/pkg/util"
)

// plannerStatus is assigned when a ticket is moved to the external planner.
const plannerStatus = "Planner"

// TicketService coordinates ticket workflows. Every mutation writes a
// chamado_logs audit entry alongside the change.
type TicketService struct {
	tickets       repository.TicketRepository
	responses     repository.ResponseRepository
	links         repository.LinkRepository
	auditLogs     repository.AuditLogRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	deadlineHours int
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	ResponseRepo  repository.ResponseRepository
	LinkRepo      repository.LinkRepository
	AuditLogRepo  repository.AuditLogRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	DeadlineHours int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Level        int
	Estruturante string
}

// TicketUpdateInput carries optional field updates; nil means unchanged.
type TicketUpdateInput struct {
	Title        *string
	Status       *string
	Level        *int
	Estruturante *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	SearchTerm   *string
	Level        *int
	Estruturante *string
	Statuses     []string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	hours := deps.DeadlineHours
	if hours <= 0 {
		hours = sla.DefaultDeadlineBusinessHours
	}
	return &TicketService{
		tickets:       deps.TicketRepo,
		responses:     deps.ResponseRepo,
		links:         deps.LinkRepo,
		auditLogs:     deps.AuditLogRepo,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		deadlineHours: hours,
	}
}

// CreateTicket opens a new ticket with the SLA deadline already computed.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	estruturante := strings.TrimSpace(input.Estruturante)
	if title == "" || description == "" || estruturante == "" {
		return nil, apperrors.NewValidationError("titulo, descricao and estruturante are required", nil)
	}
	if input.Level < 1 || input.Level > 3 {
		return nil, apperrors.NewValidationError("nivel must be between 1 and 3", nil)
	}

	number := generateTicketNumber()
	deadline := sla.Deadline(time.Now(), s.deadlineHours)
	ticket := &domain.Ticket{
		Number:       &number,
		Title:        title,
		Description:  description,
		Status:       domain.StatusAberto,
		Level:        input.Level,
		Estruturante: estruturante,
		DeadlineAt:   &deadline,
		OwnerID:      userID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, ticket.ID, userID, domain.AuditActionCreated, nil, nil, nil)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketCreatedPayload{
			Number:       ticket.Number,
			Title:        ticket.Title,
			Level:        ticket.Level,
			Estruturante: ticket.Estruturante,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		SearchTerm:   filter.SearchTerm,
		Level:        filter.Level,
		Estruturante: filter.Estruturante,
		Statuses:     filter.Statuses,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if filter.CreatedFrom != nil {
		from := sla.StartOfDayISO(*filter.CreatedFrom)
		repoFilter.CreatedFromISO = &from
	}
	if filter.CreatedTo != nil {
		to := sla.EndOfDayISO(*filter.CreatedTo)
		repoFilter.CreatedToISO = &to
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicketDetail fetches a ticket with its responses, links and audit trail.
func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Response, []domain.AuditLogEntry, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, err
	}
	links, err := s.links.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	ticket.Links = links

	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	trail, err := s.auditLogs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return ticket, responses, trail, nil
}

// UpdateTicket applies field changes, logging one audit entry per changed
// field. A level increase is an escalation: the SLA deadline is recomputed
// from now and the forwarding columns are stamped. A transition into a
// terminal status sets data_fechamento once; later edits never clear it.
func (s *TicketService) UpdateTicket(ctx context.Context, userID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if input.Title != nil && *input.Title != ticket.Title {
		old := ticket.Title
		ticket.Title = strings.TrimSpace(*input.Title)
		s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionUpdate, "titulo", old, ticket.Title)
	}
	if input.Estruturante != nil && *input.Estruturante != ticket.Estruturante {
		old := ticket.Estruturante
		ticket.Estruturante = strings.TrimSpace(*input.Estruturante)
		s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionUpdate, "estruturante", old, ticket.Estruturante)
	}
	if input.Status != nil && *input.Status != ticket.Status {
		oldStatus := ticket.Status
		ticket.Status = *input.Status
		if domain.IsTerminalStatus(ticket.Status) && ticket.ClosedAt == nil {
			ticket.ClosedAt = &now
		}
		s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionStatusChange, "status", oldStatus, ticket.Status)
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			UserID:   userID,
			Payload:  events.StatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status},
		})
	}
	if input.Level != nil && *input.Level != ticket.Level {
		if *input.Level < 1 || *input.Level > 3 {
			return nil, apperrors.NewValidationError("nivel must be between 1 and 3", nil)
		}
		oldLevel := ticket.Level
		ticket.Level = *input.Level
		action := domain.AuditActionUpdate
		if ticket.Level > oldLevel {
			// Escalation: restart the SLA clock and stamp the forwarding.
			action = domain.AuditActionEscalation
			deadline := sla.Deadline(now, s.deadlineHours)
			ticket.DeadlineAt = &deadline
			ticket.ForwardedAt = &now
			forwarded := ticket.Level
			ticket.ForwardedLevel = &forwarded
			s.publish(ctx, events.Event{
				Type:     events.EventTicketEscalated,
				TicketID: ticket.ID,
				UserID:   userID,
				Payload: events.EscalatedPayload{
					OldLevel:    oldLevel,
					NewLevel:    ticket.Level,
					NewDeadline: deadline,
				},
			})
		}
		s.recordFieldChange(ctx, ticket.ID, userID, action, "nivel",
			strconv.Itoa(oldLevel), strconv.Itoa(ticket.Level))
	}

	ticket.LastEditedAt = &now
	ticket.LastEditedBy = &userID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateNotes replaces the internal notes of a ticket.
func (s *TicketService) UpdateNotes(ctx context.Context, userID, ticketID, notes string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldNotes := ""
	if ticket.InternalNotes != nil {
		oldNotes = *ticket.InternalNotes
	}
	now := time.Now()
	ticket.InternalNotes = &notes
	ticket.LastEditedAt = &now
	ticket.LastEditedBy = &userID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionNotesUpdated, "anotacoes_internas", oldNotes, notes)
	return ticket, nil
}

// MoveToPlanner parks the ticket under the planner status.
func (s *TicketService) MoveToPlanner(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = plannerStatus
	ticket.LastEditedAt = &now
	ticket.LastEditedBy = &userID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionMovedToPlanner, "status", oldStatus, ticket.Status)
	return ticket, nil
}

// DeleteTicket removes a ticket. The audit entry is written first so the
// trail survives the row removal.
func (s *TicketService) DeleteTicket(ctx context.Context, userID, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	s.recordAudit(ctx, ticket.ID, userID, domain.AuditActionDeleted, nil, nil, nil)
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		UserID:   userID,
	})
	return nil
}

// AddResponse appends a response to the ticket thread.
func (s *TicketService) AddResponse(ctx context.Context, userID, ticketID, content string, responseType domain.ResponseType) (*domain.Response, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("conteudo is required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if responseType == "" {
		responseType = domain.ResponseTypeAgent
	}
	response := &domain.Response{
		TicketID: ticket.ID,
		UserID:   userID,
		Content:  strings.TrimSpace(content),
		Type:     responseType,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, ticket.ID, userID, domain.AuditActionResponseAdded, nil, nil, nil)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketResponseAdded,
		TicketID: ticket.ID,
		UserID:   userID,
	})
	return response, nil
}

// AddLink attaches a named URL to the ticket.
func (s *TicketService) AddLink(ctx context.Context, userID, ticketID, name, url string) (*domain.TicketLink, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
		return nil, apperrors.NewValidationError("nome and url are required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	link := &domain.TicketLink{
		TicketID: ticket.ID,
		Name:     strings.TrimSpace(name),
		URL:      strings.TrimSpace(url),
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	s.recordFieldChange(ctx, ticket.ID, userID, domain.AuditActionLinkAdded, "link", "", link.Name)
	return link, nil
}

// RemoveLink detaches a link from its ticket.
func (s *TicketService) RemoveLink(ctx context.Context, userID, ticketID, linkID string) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link.TicketID != ticketID {
		return apperrors.NewNotFound("link", nil)
	}
	if err := s.links.Delete(ctx, link.ID); err != nil {
		return err
	}
	s.recordFieldChange(ctx, ticketID, userID, domain.AuditActionLinkRemoved, "link", link.Name, "")
	return nil
}

func (s *TicketService) recordFieldChange(ctx context.Context, ticketID, userID string, action domain.AuditAction, field, oldValue, newValue string) {
	s.recordAudit(ctx, ticketID, userID, action, &field, &oldValue, &newValue)
}

func (s *TicketService) recordAudit(ctx context.Context, ticketID, userID string, action domain.AuditAction, field, oldValue, newValue *string) {
	entry := &domain.AuditLogEntry{
		TicketID:     ticketID,
		UserID:       userID,
		Action:       action,
		ChangedField: field,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
	if err := s.auditLogs.Create(ctx, entry); err != nil {
		// Audit failures must not abort the mutation they describe.
		s.logger.Error("failed to record audit entry",
			zap.String("chamado_id", ticketID),
			zap.String("acao", string(action)),
			zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketNumber() string {
	return "CH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
