package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/observability"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
)

type fakeTicketRepo struct {
	tickets []domain.Ticket
	listErr error
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.ID = fmt.Sprintf("ticket-%d", len(f.tickets)+1)
	ticket.CreatedAt = time.Now()
	f.tickets = append(f.tickets, *ticket)
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	for i := range f.tickets {
		if f.tickets[i].ID == ticket.ID {
			f.tickets[i] = *ticket
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			ticket := f.tickets[i]
			return &ticket, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return f.tickets, nil
}

func (f *fakeTicketRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var expired []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.DeadlineAt == nil || !ticket.DeadlineAt.Before(now) {
			continue
		}
		if domain.IsTerminalStatus(ticket.Status) {
			continue
		}
		expired = append(expired, ticket)
	}
	return expired, nil
}

func (f *fakeTicketRepo) CountsByColumn(ctx context.Context, column, fromISO, toISO string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (f *fakeTicketRepo) CountExpiredOpen(ctx context.Context, now time.Time) (int, error) {
	expired, err := f.ListExpired(ctx, now)
	return len(expired), err
}

type fakeNotificationRepo struct {
	created   []domain.Notification
	unread    map[string]bool
	createErr map[string]error
	checkErr  map[string]error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		unread:    make(map[string]bool),
		createErr: make(map[string]error),
		checkErr:  make(map[string]error),
	}
}

func pairKey(ticketID, userID string) string {
	return ticketID + "|" + userID
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	if err := f.createErr[notification.TicketID]; err != nil {
		return err
	}
	notification.ID = fmt.Sprintf("notification-%d", len(f.created)+1)
	notification.Unread = true
	notification.CreatedAt = time.Now()
	f.created = append(f.created, *notification)
	f.unread[pairKey(notification.TicketID, notification.UserID)] = true
	return nil
}

func (f *fakeNotificationRepo) HasUnread(ctx context.Context, ticketID, userID string) (bool, error) {
	if err := f.checkErr[ticketID]; err != nil {
		return false, err
	}
	return f.unread[pairKey(ticketID, userID)], nil
}

func (f *fakeNotificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, n := range f.created {
		if n.UserID == userID && f.unread[pairKey(n.TicketID, n.UserID)] {
			result = append(result, n)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) CountUnreadByUser(ctx context.Context, userID string) (int, error) {
	list, _ := f.ListUnreadByUser(ctx, userID)
	return len(list), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			f.unread[pairKey(n.TicketID, n.UserID)] = false
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.created {
		if n.UserID == userID {
			f.unread[pairKey(n.TicketID, n.UserID)] = false
		}
	}
	return nil
}

func expiredTicket(id, owner, status string, deadlineOffset time.Duration) domain.Ticket {
	deadline := time.Now().Add(deadlineOffset)
	number := "CH-" + id
	return domain.Ticket{
		ID:         id,
		Number:     &number,
		Title:      "Sistema fora do ar",
		Status:     status,
		Level:      1,
		OwnerID:    owner,
		DeadlineAt: &deadline,
	}
}

func newSweepFixture(tickets []domain.Ticket, notifRepo *fakeNotificationRepo) (*SweepService, *fakeTicketRepo) {
	ticketRepo := &fakeTicketRepo{tickets: tickets}
	center := NewNotificationCenter(notifRepo, nil, zap.NewNop())
	sweep := NewSweepService(SweepDependencies{
		TicketRepo: ticketRepo,
		Center:     center,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})
	return sweep, ticketRepo
}

func TestReconcileExpiredCreatesOneNotificationPerTicket(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
		expiredTicket("t2", "u2", "Em Atendimento", -48*time.Hour),
	}, notifRepo)

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TicketsChecked)
	assert.Equal(t, 2, result.NotificationsCreated)
	require.Len(t, notifRepo.created, 2)
	assert.Equal(t, "u1", notifRepo.created[0].UserID)
	assert.Equal(t, "t1", notifRepo.created[0].TicketID)
}

func TestReconcileExpiredIsIdempotent(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
	}, notifRepo)

	first, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.NotificationsCreated)

	second, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.TicketsChecked)
	assert.Equal(t, 0, second.NotificationsCreated)
	assert.Len(t, notifRepo.created, 1)
}

func TestReconcileExpiredNotifiesAgainAfterRead(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
	}, notifRepo)

	_, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	require.NoError(t, notifRepo.MarkRead(context.Background(), notifRepo.created[0].ID, "u1"))

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotificationsCreated)
	assert.Len(t, notifRepo.created, 2)
}

func TestReconcileExpiredSkipsTerminalStatusAnyCasing(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "fechado", -time.Hour),
		expiredTicket("t2", "u1", "ENCERRADO", -time.Hour),
		expiredTicket("t3", "u1", "Fechado", -time.Hour),
	}, notifRepo)

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TicketsChecked)
	assert.Empty(t, notifRepo.created)
}

func TestReconcileExpiredIgnoresTicketsWithoutDeadline(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	noDeadline := domain.Ticket{ID: "t1", Title: "Sem prazo", Status: "Aberto", OwnerID: "u1"}
	future := expiredTicket("t2", "u1", "Aberto", 24*time.Hour)
	sweep, _ := newSweepFixture([]domain.Ticket{noDeadline, future}, notifRepo)

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TicketsChecked)
	assert.Empty(t, notifRepo.created)
}

func TestReconcileExpiredContinuesAfterPerTicketFailure(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	notifRepo.createErr["t1"] = errors.New("insert failed")
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
		expiredTicket("t2", "u2", "Aberto", -time.Hour),
	}, notifRepo)

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TicketsChecked)
	assert.Equal(t, 1, result.NotificationsCreated)
	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, "t2", notifRepo.created[0].TicketID)
}

func TestReconcileExpiredContinuesAfterCheckFailure(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	notifRepo.checkErr["t1"] = errors.New("check failed")
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
		expiredTicket("t2", "u2", "Aberto", -time.Hour),
	}, notifRepo)

	result, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotificationsCreated)
}

func TestReconcileExpiredReturnsErrorWhenListingFails(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, ticketRepo := newSweepFixture(nil, notifRepo)
	ticketRepo.listErr = errors.New("database down")

	_, err := sweep.ReconcileExpired(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list expired tickets")
}

func TestReconcileExpiredMessageNamesTicket(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	sweep, _ := newSweepFixture([]domain.Ticket{
		expiredTicket("t1", "u1", "Aberto", -time.Hour),
	}, notifRepo)

	_, err := sweep.ReconcileExpired(context.Background())
	require.NoError(t, err)
	require.Len(t, notifRepo.created, 1)
	message := notifRepo.created[0].Message
	assert.Contains(t, message, "PRAZO EXPIRADO")
	assert.Contains(t, message, "CH-t1")
	assert.Contains(t, message, "72h")
}
