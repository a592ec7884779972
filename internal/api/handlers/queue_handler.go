package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahajranjan/vidpilot/internal/queue"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

type QueueHandler struct {
	pq *queue.PublishQueue
}

func NewQueueHandler(pq *queue.PublishQueue) *QueueHandler {
	return &QueueHandler{pq: pq}
}

func (h *QueueHandler) ListEntries(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.pq.Entries())
}

func (h *QueueHandler) PauseEntry(c *fiber.Ctx) error {
	var req transfer.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if err := h.pq.Pause(c.Context(), req.ID); err != nil {
		return queueError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Entry paused",
	})
}

func (h *QueueHandler) ResumeEntry(c *fiber.Ctx) error {
	var req transfer.ResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	var newTime *time.Time
	if req.PublishTime != "" {
		parsed, err := time.Parse("2006-01-02T15:04", req.PublishTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid publish time format",
			})
		}
		newTime = &parsed
	}

	if err := h.pq.Resume(c.Context(), req.ID, newTime); err != nil {
		return queueError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Entry resumed",
	})
}

// PublishEntry pushes one entry out immediately, ahead of its
// scheduled time.
func (h *QueueHandler) PublishEntry(c *fiber.Ctx) error {
	var req transfer.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if err := h.pq.PublishByID(c.Context(), req.ID); err != nil {
		return queueError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Entry published",
	})
}

func (h *QueueHandler) DrainNow(c *fiber.Ctx) error {
	published := h.pq.Drain(c.Context(), time.Now())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"published": published,
	})
}

func queueError(c *fiber.Ctx, err error) error {
	var ve *queue.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
