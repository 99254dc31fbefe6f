package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/api/dto"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/domain"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
	apperrors "github.com/Rafaeloliveira945093/support-script-hub/pkg/util"
)

// CatalogHandler manages the estruturantes and status configuration lists.
type CatalogHandler struct {
	catalog repository.CatalogRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListEstruturantes GET /estruturantes.
func (h *CatalogHandler) ListEstruturantes(c *fiber.Ctx) error {
	items, err := h.catalog.ListEstruturantes(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.EstruturanteResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, dto.EstruturanteResponse{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateEstruturante POST /estruturantes.
func (h *CatalogHandler) CreateEstruturante(c *fiber.Ctx) error {
	var req dto.CreateEstruturanteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("nome required", nil)
	}
	e := &domain.Estruturante{Name: strings.TrimSpace(req.Name)}
	if err := h.catalog.CreateEstruturante(c.Context(), e); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.EstruturanteResponse{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt},
	})
}

// DeleteEstruturante DELETE /estruturantes/:id.
func (h *CatalogHandler) DeleteEstruturante(c *fiber.Ctx) error {
	if err := h.catalog.DeleteEstruturante(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListStatusOptions GET /status-options.
func (h *CatalogHandler) ListStatusOptions(c *fiber.Ctx) error {
	items, err := h.catalog.ListStatusOptions(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.StatusOptionResponse, 0, len(items))
	for _, s := range items {
		resp = append(resp, dto.StatusOptionResponse{ID: s.ID, Name: s.Name, Color: s.Color, CreatedAt: s.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateStatusOption POST /status-options.
func (h *CatalogHandler) CreateStatusOption(c *fiber.Ctx) error {
	var req dto.CreateStatusOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("nome required", nil)
	}
	s := &domain.StatusOption{Name: strings.TrimSpace(req.Name), Color: strings.TrimSpace(req.Color)}
	if err := h.catalog.CreateStatusOption(c.Context(), s); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.StatusOptionResponse{ID: s.ID, Name: s.Name, Color: s.Color, CreatedAt: s.CreatedAt},
	})
}

// DeleteStatusOption DELETE /status-options/:id.
func (h *CatalogHandler) DeleteStatusOption(c *fiber.Ctx) error {
	if err := h.catalog.DeleteStatusOption(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
