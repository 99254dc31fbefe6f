package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
)

// ReportsHandler exposes ticket aggregates.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Summary GET /reports/summary?data_inicio=...&data_fim=...
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if t := parseTime(c.Query("data_inicio")); t != nil {
		from = *t
	}
	if t := parseTime(c.Query("data_fim")); t != nil {
		to = *t
	}

	summary, err := h.reports.Summary(c.Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"periodo":          fiber.Map{"inicio": summary.From, "fim": summary.To},
		"por_status":       summary.ByStatus,
		"por_nivel":        summary.ByLevel,
		"por_estruturante": summary.ByEstruturante,
		"respostas":        summary.ResponsesInRange,
		"prazos_expirados": summary.ExpiredOpen,
	}})
}
