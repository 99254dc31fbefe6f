package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/api/dto"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/auth"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/sla"
	apperrors "github.com/Rafaeloliveira945093/support-script-hub/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.Context(), principal.User.ID, service.TicketCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Level:        req.Level,
		Estruturante: req.Estruturante,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, responses, trail, err := h.service.GetTicketDetail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, responses, trail)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.Context(), principal.User.ID, c.Params("id"), service.TicketUpdateInput{
		Title:        req.Title,
		Status:       req.Status,
		Level:        req.Level,
		Estruturante: req.Estruturante,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateNotes PUT /tickets/:id/notes.
func (h *TicketsHandler) UpdateNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateNotes(c.Context(), principal.User.ID, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// MoveToPlanner POST /tickets/:id/planner.
func (h *TicketsHandler) MoveToPlanner(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.MoveToPlanner(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteTicket(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddResponse POST /tickets/:id/responses.
func (h *TicketsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	response, err := h.service.AddResponse(c.Context(), principal.User.ID, c.Params("id"),
		req.Content, domain.ResponseType(req.Type))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": responseResponse(response)})
}

// AddLink POST /tickets/:id/links.
func (h *TicketsHandler) AddLink(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	link, err := h.service.AddLink(c.Context(), principal.User.ID, c.Params("id"), req.Name, req.URL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": linkResponse(link)})
}

// RemoveLink DELETE /tickets/:id/links/:linkId.
func (h *TicketsHandler) RemoveLink(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.RemoveLink(c.Context(), principal.User.ID, c.Params("id"), c.Params("linkId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	if levelStr := c.Query("nivel"); levelStr != "" {
		if level, err := strconv.Atoi(levelStr); err == nil {
			filter.Level = &level
		}
	}
	if estruturante := c.Query("estruturante"); estruturante != "" {
		filter.Estruturante = &estruturante
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, strings.TrimSpace(part))
		}
	}
	if from := parseTime(c.Query("data_inicio")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("data_fim")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// The date filters also accept plain calendar days.
		t, err = time.ParseInLocation("2006-01-02", val, time.Local)
		if err != nil {
			return nil
		}
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		Number:       ticket.Number,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Level:        ticket.Level,
		Estruturante: ticket.Estruturante,
		CreatedAt:    ticket.CreatedAt,
		DeadlineAt:   ticket.DeadlineAt,
		ClosedAt:     ticket.ClosedAt,
		Expired:      sla.IsExpired(ticket.DeadlineAt) && !domain.IsTerminalStatus(ticket.Status),
	}
}

func ticketDetail(ticket *domain.Ticket, responses []domain.Response, trail []domain.AuditLogEntry) dto.TicketDetailResponse {
	links := make([]dto.LinkResponse, 0, len(ticket.Links))
	for i := range ticket.Links {
		links = append(links, linkResponse(&ticket.Links[i]))
	}
	resps := make([]dto.ResponseResponse, 0, len(responses))
	for i := range responses {
		resps = append(resps, responseResponse(&responses[i]))
	}
	audit := make([]dto.AuditLogResponse, 0, len(trail))
	for _, entry := range trail {
		audit = append(audit, dto.AuditLogResponse{
			ID:           entry.ID,
			UserID:       entry.UserID,
			Action:       entry.Action,
			ChangedField: entry.ChangedField,
			OldValue:     entry.OldValue,
			NewValue:     entry.NewValue,
			CreatedAt:    entry.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		ID:             ticket.ID,
		Number:         ticket.Number,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Level:          ticket.Level,
		Estruturante:   ticket.Estruturante,
		CreatedAt:      ticket.CreatedAt,
		DeadlineAt:     ticket.DeadlineAt,
		ForwardedAt:    ticket.ForwardedAt,
		ForwardedLevel: ticket.ForwardedLevel,
		ClosedAt:       ticket.ClosedAt,
		InternalNotes:  ticket.InternalNotes,
		Expired:        sla.IsExpired(ticket.DeadlineAt) && !domain.IsTerminalStatus(ticket.Status),
		Links:          links,
		Responses:      resps,
		AuditTrail:     audit,
	}
}

func linkResponse(link *domain.TicketLink) dto.LinkResponse {
	return dto.LinkResponse{
		ID:        link.ID,
		Name:      link.Name,
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
	}
}

func responseResponse(response *domain.Response) dto.ResponseResponse {
	return dto.ResponseResponse{
		ID:        response.ID,
		UserID:    response.UserID,
		Content:   response.Content,
		Type:      response.Type,
		CreatedAt: response.CreatedAt,
	}
}
