package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/events"
)

type fakeResponseRepo struct {
	responses []domain.Response
}

func (f *fakeResponseRepo) Create(ctx context.Context, response *domain.Response) error {
	response.ID = fmt.Sprintf("response-%d", len(f.responses)+1)
	response.CreatedAt = time.Now()
	f.responses = append(f.responses, *response)
	return nil
}

func (f *fakeResponseRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	var result []domain.Response
	for _, r := range f.responses {
		if r.TicketID == ticketID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeResponseRepo) CountByTicketOwner(ctx context.Context, fromISO, toISO string) (int, error) {
	return len(f.responses), nil
}

type fakeLinkRepo struct {
	links []domain.TicketLink
}

func (f *fakeLinkRepo) Create(ctx context.Context, link *domain.TicketLink) error {
	link.ID = fmt.Sprintf("link-%d", len(f.links)+1)
	link.CreatedAt = time.Now()
	f.links = append(f.links, *link)
	return nil
}

func (f *fakeLinkRepo) GetByID(ctx context.Context, id string) (*domain.TicketLink, error) {
	for i := range f.links {
		if f.links[i].ID == id {
			link := f.links[i]
			return &link, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeLinkRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketLink, error) {
	var result []domain.TicketLink
	for _, l := range f.links {
		if l.TicketID == ticketID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLinkRepo) Delete(ctx context.Context, id string) error {
	for i := range f.links {
		if f.links[i].ID == id {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type fakeAuditLogRepo struct {
	entries []domain.AuditLogEntry
}

func (f *fakeAuditLogRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	entry.ID = fmt.Sprintf("log-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditLogRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	var result []domain.AuditLogEntry
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeAuditLogRepo) actions() []domain.AuditAction {
	actions := make([]domain.AuditAction, 0, len(f.entries))
	for _, e := range f.entries {
		actions = append(actions, e.Action)
	}
	return actions
}

type ticketFixture struct {
	service   *TicketService
	tickets   *fakeTicketRepo
	responses *fakeResponseRepo
	links     *fakeLinkRepo
	audit     *fakeAuditLogRepo
	events    *[]events.Event
}

func newTicketFixture() *ticketFixture {
	tickets := &fakeTicketRepo{}
	responses := &fakeResponseRepo{}
	links := &fakeLinkRepo{}
	audit := &fakeAuditLogRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	published := &[]events.Event{}
	record := func(ctx context.Context, event events.Event) error {
		*published = append(*published, event)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketEscalated,
		events.EventTicketResponseAdded,
		events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(eventType, record)
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		ResponseRepo: responses,
		LinkRepo:     links,
		AuditLogRepo: audit,
		Dispatcher:   dispatcher,
		Logger:       zap.NewNop(),
	})
	return &ticketFixture{
		service:   svc,
		tickets:   tickets,
		responses: responses,
		links:     links,
		audit:     audit,
		events:    published,
	}
}

func validCreateInput() TicketCreateInput {
	return TicketCreateInput{
		Title:        "Impressora não funciona",
		Description:  "A impressora do setor parou de responder.",
		Level:        1,
		Estruturante: "Infraestrutura",
	}
}

func TestCreateTicketSetsDeadlineAndDefaults(t *testing.T) {
	fix := newTicketFixture()

	before := time.Now()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAberto, ticket.Status)
	assert.Equal(t, "u1", ticket.OwnerID)
	require.NotNil(t, ticket.Number)
	assert.True(t, strings.HasPrefix(*ticket.Number, "CH-"))
	assert.Len(t, *ticket.Number, 11)

	require.NotNil(t, ticket.DeadlineAt)
	// 72 business hours is at least 3 calendar days out.
	assert.True(t, ticket.DeadlineAt.After(before.Add(71*time.Hour)))
	assert.NotEqual(t, time.Saturday, ticket.DeadlineAt.Weekday())
	assert.NotEqual(t, time.Sunday, ticket.DeadlineAt.Weekday())

	require.Len(t, fix.audit.entries, 1)
	assert.Equal(t, domain.AuditActionCreated, fix.audit.entries[0].Action)
	require.Len(t, *fix.events, 1)
	assert.Equal(t, events.EventTicketCreated, (*fix.events)[0].Type)
}

func TestCreateTicketValidation(t *testing.T) {
	fix := newTicketFixture()

	missingTitle := validCreateInput()
	missingTitle.Title = "   "
	_, err := fix.service.CreateTicket(context.Background(), "u1", missingTitle)
	assert.Error(t, err)

	badLevel := validCreateInput()
	badLevel.Level = 4
	_, err = fix.service.CreateTicket(context.Background(), "u1", badLevel)
	assert.Error(t, err)

	assert.Empty(t, fix.tickets.tickets)
	assert.Empty(t, fix.audit.entries)
}

func TestUpdateTicketEscalationRestartsDeadline(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)
	originalDeadline := *ticket.DeadlineAt

	newLevel := 3
	updated, err := fix.service.UpdateTicket(context.Background(), "u2", ticket.ID, TicketUpdateInput{Level: &newLevel})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Level)
	require.NotNil(t, updated.ForwardedAt)
	require.NotNil(t, updated.ForwardedLevel)
	assert.Equal(t, 3, *updated.ForwardedLevel)
	require.NotNil(t, updated.DeadlineAt)
	assert.True(t, updated.DeadlineAt.After(originalDeadline) || updated.DeadlineAt.Equal(originalDeadline))

	assert.Contains(t, fix.audit.actions(), domain.AuditActionEscalation)
	var escalated bool
	for _, event := range *fix.events {
		if event.Type == events.EventTicketEscalated {
			escalated = true
		}
	}
	assert.True(t, escalated)
}

func TestUpdateTicketLevelDecreaseIsNotEscalation(t *testing.T) {
	fix := newTicketFixture()
	input := validCreateInput()
	input.Level = 3
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", input)
	require.NoError(t, err)

	newLevel := 1
	updated, err := fix.service.UpdateTicket(context.Background(), "u1", ticket.ID, TicketUpdateInput{Level: &newLevel})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Level)
	assert.Nil(t, updated.ForwardedAt)
	assert.NotContains(t, fix.audit.actions(), domain.AuditActionEscalation)
}

func TestUpdateTicketTerminalStatusSetsClosedAtOnce(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	closed := "Fechado"
	updated, err := fix.service.UpdateTicket(context.Background(), "u1", ticket.ID, TicketUpdateInput{Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	firstClose := *updated.ClosedAt

	reopened := "Aberto"
	updated, err = fix.service.UpdateTicket(context.Background(), "u1", ticket.ID, TicketUpdateInput{Status: &reopened})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, firstClose, *updated.ClosedAt)

	assert.Contains(t, fix.audit.actions(), domain.AuditActionStatusChange)
}

func TestMoveToPlanner(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	updated, err := fix.service.MoveToPlanner(context.Background(), "u1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Planner", updated.Status)
	assert.Nil(t, updated.ClosedAt)
	assert.Contains(t, fix.audit.actions(), domain.AuditActionMovedToPlanner)
}

func TestDeleteTicketKeepsAuditTrail(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	require.NoError(t, fix.service.DeleteTicket(context.Background(), "u1", ticket.ID))
	assert.Empty(t, fix.tickets.tickets)

	trail, err := fix.audit.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Contains(t, fix.audit.actions(), domain.AuditActionDeleted)
	assert.Len(t, trail, 2)
}

func TestAddResponseDefaultsToAgent(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	response, err := fix.service.AddResponse(context.Background(), "u2", ticket.ID, "Verificando o problema.", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseTypeAgent, response.Type)
	assert.Contains(t, fix.audit.actions(), domain.AuditActionResponseAdded)

	_, err = fix.service.AddResponse(context.Background(), "u2", ticket.ID, "  ", "")
	assert.Error(t, err)
}

func TestLinkLifecycle(t *testing.T) {
	fix := newTicketFixture()
	ticket, err := fix.service.CreateTicket(context.Background(), "u1", validCreateInput())
	require.NoError(t, err)

	link, err := fix.service.AddLink(context.Background(), "u1", ticket.ID, "Runbook", "https://wiki.example/runbook")
	require.NoError(t, err)
	assert.Contains(t, fix.audit.actions(), domain.AuditActionLinkAdded)

	err = fix.service.RemoveLink(context.Background(), "u1", "other-ticket", link.ID)
	assert.Error(t, err)

	require.NoError(t, fix.service.RemoveLink(context.Background(), "u1", ticket.ID, link.ID))
	assert.Empty(t, fix.links.links)
	assert.Contains(t, fix.audit.actions(), domain.AuditActionLinkRemoved)
}
