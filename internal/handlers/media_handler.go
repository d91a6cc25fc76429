package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// MediaReader serves stored media objects.
type MediaReader interface {
	Read(ctx context.Context, publicID string) ([]byte, string, error)
}

// MediaHandler serves uploaded media.
type MediaHandler struct {
	media MediaReader
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media MediaReader) *MediaHandler {
	return &MediaHandler{media: media}
}

// RegisterRoutes registers the media route.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/media/:publicId", h.HandleGetMedia)
}

// HandleGetMedia streams one media object.
func (h *MediaHandler) HandleGetMedia(c *fiber.Ctx) error {
	data, contentType, err := h.media.Read(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return respondError(c, "get media", err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
