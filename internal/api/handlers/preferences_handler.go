package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/internal/store"
	"github.com/reviewlens/backend/pkg/logger"
)

// PreferencesHandler exposes CRUD over the preference store. Writes
// invalidate the analysis cache since scores depend on preference history.
type PreferencesHandler struct {
	store *store.PreferenceStore
	cache *redis.Client
}

func NewPreferencesHandler(prefStore *store.PreferenceStore, cache *redis.Client) *PreferencesHandler {
	return &PreferencesHandler{
		store: prefStore,
		cache: cache,
	}
}

func (h *PreferencesHandler) ListPreferences(c *fiber.Ctx) error {
	preferences, err := h.store.GetAll()
	if err != nil {
		logger.Error("Failed to load preferences", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load preferences",
		})
	}

	return c.JSON(fiber.Map{
		"preferences": preferences,
		"count":       len(preferences),
	})
}

func (h *PreferencesHandler) GetPreference(c *fiber.Ctx) error {
	id, err := preferenceID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a positive integer",
		})
	}

	pref, err := h.store.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Preference not found",
			})
		}
		logger.Error("Failed to load preference", zap.Error(err), zap.Int("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load preference",
		})
	}

	return c.JSON(pref)
}

func (h *PreferencesHandler) CreatePreference(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		UserRating int      `json:"user_rating"`
		MediaType  string   `json:"media_type"`
		Themes     []string `json:"themes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if req.MediaType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "media_type is required",
		})
	}
	if req.UserRating < 1 || req.UserRating > 10 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_rating must be between 1 and 10",
		})
	}

	pref, err := h.store.Create(models.Preference{
		Title:      req.Title,
		UserRating: req.UserRating,
		MediaType:  req.MediaType,
		Themes:     req.Themes,
	})
	if err != nil {
		logger.Error("Failed to create preference", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create preference",
		})
	}

	h.invalidateCache(c)
	return c.Status(fiber.StatusCreated).JSON(pref)
}

func (h *PreferencesHandler) UpdatePreference(c *fiber.Ctx) error {
	id, err := preferenceID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a positive integer",
		})
	}

	var update store.PreferenceUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if update.UserRating != nil && (*update.UserRating < 1 || *update.UserRating > 10) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_rating must be between 1 and 10",
		})
	}

	pref, err := h.store.Update(id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Preference not found",
			})
		}
		logger.Error("Failed to update preference", zap.Error(err), zap.Int("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update preference",
		})
	}

	h.invalidateCache(c)
	return c.JSON(pref)
}

func (h *PreferencesHandler) DeletePreference(c *fiber.Ctx) error {
	id, err := preferenceID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a positive integer",
		})
	}

	deleted, err := h.store.Delete(id)
	if err != nil {
		logger.Error("Failed to delete preference", zap.Error(err), zap.Int("id", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete preference",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Preference not found",
		})
	}

	h.invalidateCache(c)
	return c.JSON(fiber.Map{"deleted": true, "id": id})
}

func (h *PreferencesHandler) invalidateCache(c *fiber.Ctx) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateAnalyses(c.Context()); err != nil {
		logger.Warn("Failed to invalidate analysis cache", zap.Error(err))
	}
}

func preferenceID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
