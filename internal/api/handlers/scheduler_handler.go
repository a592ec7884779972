package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/scheduler"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

type SchedulerHandler struct {
	s      *scheduler.Scheduler
	events repository.AutomationEventRepository
}

func NewSchedulerHandler(s *scheduler.Scheduler, events repository.AutomationEventRepository) *SchedulerHandler {
	return &SchedulerHandler{s: s, events: events}
}

func (h *SchedulerHandler) ListTasks(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.s.Tasks())
}

func (h *SchedulerHandler) EnableTask(c *fiber.Ctx) error {
	return h.toggle(c, h.s.EnableTask, "Task enabled")
}

func (h *SchedulerHandler) DisableTask(c *fiber.Ctx) error {
	return h.toggle(c, h.s.DisableTask, "Task disabled")
}

func (h *SchedulerHandler) RunTask(c *fiber.Ctx) error {
	var req transfer.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if err := h.s.RunNow(c.Context(), req.Name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Task executed",
	})
}

func (h *SchedulerHandler) ListEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 0 {
		limit = 0
	}
	filter := repository.EventFilter{
		TaskName: c.Query("task"),
		Status:   c.Query("status"),
		Limit:    uint64(limit),
	}
	if days := c.QueryInt("days", 0); days > 0 {
		filter.Since = time.Now().AddDate(0, 0, -days)
	}

	events, err := h.events.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list automation events",
		})
	}

	return c.Status(fiber.StatusOK).JSON(events)
}

func (h *SchedulerHandler) toggle(c *fiber.Ctx, fn func(string) error, message string) error {
	var req transfer.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if err := fn(req.Name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
	})
}
