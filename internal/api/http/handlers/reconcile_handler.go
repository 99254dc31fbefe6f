package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
)

// ReconcileHandler exposes the expiration reconciliation sweep as an
// externally invocable endpoint, mirroring the scheduled-function contract:
// no input, permissive CORS, JSON summary of the run.
type ReconcileHandler struct {
	sweep *service.SweepService
}

// NewReconcileHandler constructs handler.
func NewReconcileHandler(sweep *service.SweepService) *ReconcileHandler {
	return &ReconcileHandler{sweep: sweep}
}

func setCORSHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-Info, Apikey")
}

// Preflight short-circuits CORS pre-flight requests.
func (h *ReconcileHandler) Preflight(c *fiber.Ctx) error {
	setCORSHeaders(c)
	return c.SendStatus(http.StatusOK)
}

// Run POST /internal/reconcile-expired.
func (h *ReconcileHandler) Run(c *fiber.Ctx) error {
	setCORSHeaders(c)

	result, err := h.sweep.ReconcileExpired(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if result.TicketsChecked == 0 {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Nenhum chamado expirado encontrado",
			"count":   0,
		})
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"message":              fmt.Sprintf("Processados %d chamados expirados", result.TicketsChecked),
		"notificacoesEnviadas": result.NotificationsCreated,
		"chamadosVerificados":  result.TicketsChecked,
	})
}
