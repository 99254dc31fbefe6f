package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/observability"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
)

type stubTicketRepo struct {
	expired []domain.Ticket
	listErr error
}

func (s *stubTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error { return nil }
func (s *stubTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error { return nil }
func (s *stubTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return nil, errors.New("not implemented")
}
func (s *stubTicketRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}
func (s *stubTicketRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	return s.expired, s.listErr
}
func (s *stubTicketRepo) CountsByColumn(ctx context.Context, column, fromISO, toISO string) (map[string]int, error) {
	return nil, nil
}
func (s *stubTicketRepo) CountExpiredOpen(ctx context.Context, now time.Time) (int, error) {
	return len(s.expired), nil
}

type stubNotificationRepo struct {
	created int
}

func (s *stubNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	s.created++
	notification.ID = "notification-1"
	return nil
}
func (s *stubNotificationRepo) HasUnread(ctx context.Context, ticketID, userID string) (bool, error) {
	return false, nil
}
func (s *stubNotificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return nil, nil
}
func (s *stubNotificationRepo) CountUnreadByUser(ctx context.Context, userID string) (int, error) {
	return s.created, nil
}
func (s *stubNotificationRepo) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID string) error { return nil }

func newReconcileApp(tickets *stubTicketRepo) *fiber.App {
	center := service.NewNotificationCenter(&stubNotificationRepo{}, nil, zap.NewNop())
	sweep := service.NewSweepService(service.SweepDependencies{
		TicketRepo: tickets,
		Center:     center,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})
	handler := NewReconcileHandler(sweep)

	app := fiber.New()
	app.Options("/internal/reconcile-expired", handler.Preflight)
	app.Post("/internal/reconcile-expired", handler.Run)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestReconcilePreflightSetsCORSHeaders(t *testing.T) {
	app := newReconcileApp(&stubTicketRepo{})

	req := httptest.NewRequest(http.MethodOptions, "/internal/reconcile-expired", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestReconcileRunWithNoExpiredTickets(t *testing.T) {
	app := newReconcileApp(&stubTicketRepo{})

	req := httptest.NewRequest(http.MethodPost, "/internal/reconcile-expired", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Nenhum chamado expirado encontrado", body["message"])
	assert.Equal(t, float64(0), body["count"])
}

func TestReconcileRunReportsProcessedTickets(t *testing.T) {
	deadline := time.Now().Add(-time.Hour)
	number := "CH-0001"
	tickets := &stubTicketRepo{expired: []domain.Ticket{
		{
			ID:         "t1",
			Number:     &number,
			Title:      "Sistema fora do ar",
			Status:     "Aberto",
			OwnerID:    "u1",
			DeadlineAt: &deadline,
		},
	}}
	app := newReconcileApp(tickets)

	req := httptest.NewRequest(http.MethodPost, "/internal/reconcile-expired", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Processados 1 chamados expirados", body["message"])
	assert.Equal(t, float64(1), body["notificacoesEnviadas"])
	assert.Equal(t, float64(1), body["chamadosVerificados"])
}

func TestReconcileRunReturns500OnFailure(t *testing.T) {
	app := newReconcileApp(&stubTicketRepo{listErr: errors.New("database down")})

	req := httptest.NewRequest(http.MethodPost, "/internal/reconcile-expired", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "database down")
}
