package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/transfer"
	"github.com/sahajranjan/vidpilot/pkg/utils"
)

type ChannelHandler struct {
	cfg config.Config
	cr  repository.ChannelRepository
}

func NewChannelHandler(cfg config.Config, cr repository.ChannelRepository) *ChannelHandler {
	return &ChannelHandler{cfg: cfg, cr: cr}
}

// RegisterChannel stores the publishing channel's OAuth credentials.
// Tokens arrive in plaintext from the OAuth consent flow and are
// encrypted before they touch the database.
func (h *ChannelHandler) RegisterChannel(c *fiber.Ctx) error {
	var req transfer.ChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if req.ChannelID == "" || req.AccessToken == "" || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing channel id or tokens",
		})
	}

	encryptedAccess, err := utils.Encrypt([]byte(req.AccessToken), []byte(h.cfg.SecretKey))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to secure tokens",
		})
	}
	encryptedRefresh, err := utils.Encrypt([]byte(req.RefreshToken), []byte(h.cfg.SecretKey))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to secure tokens",
		})
	}

	account := &models.ChannelAccount{
		ChannelID:      req.ChannelID,
		ChannelName:    req.ChannelName,
		AccessToken:    encryptedAccess,
		RefreshToken:   encryptedRefresh,
		TokenExpiresAt: time.Now().Add(time.Duration(req.ExpiresIn) * time.Second),
	}

	id, err := h.cr.Create(c.Context(), account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save channel account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"message": "Channel registered",
	})
}

// GetChannel reports the configured channel without exposing tokens.
func (h *ChannelHandler) GetChannel(c *fiber.Ctx) error {
	account, err := h.cr.Get(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load channel account",
		})
	}
	if account == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No channel registered",
		})
	}

	return c.Status(fiber.StatusOK).JSON(account)
}
