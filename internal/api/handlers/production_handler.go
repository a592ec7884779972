package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/pipeline"
	"github.com/sahajranjan/vidpilot/internal/repository"
)

type ProductionHandler struct {
	pr repository.ProductionRepository
}

func NewProductionHandler(pr repository.ProductionRepository) *ProductionHandler {
	return &ProductionHandler{pr: pr}
}

func (h *ProductionHandler) ListProductions(c *fiber.Ctx) error {
	status := c.Query("status", models.ProductionStatusProcessing)

	productions, err := h.pr.ListByStatus(c.Context(), status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list productions",
		})
	}

	return c.Status(fiber.StatusOK).JSON(productions)
}

func (h *ProductionHandler) GetProgress(c *fiber.Ctx) error {
	id := c.QueryInt("id", 0)
	if id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing production id",
		})
	}

	production, err := h.pr.GetByID(c.Context(), int64(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load production",
		})
	}
	if production == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Production not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":       production.ID,
		"status":   production.Status,
		"progress": pipeline.Progress(production),
	})
}
