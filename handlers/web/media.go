// handlers/web/media.go
package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"xfront/config"
	"xfront/models"
)

// MediaHandler serves the media registry pages: the user's own uploads with
// prev/next paging, signed access links and deletion.
type MediaHandler struct {
	config *config.Config
	auth   *AuthHandler
}

// NewMediaHandler creates a new instance of MediaHandler
func NewMediaHandler(cfg *config.Config, authHandler *AuthHandler) *MediaHandler {
	return &MediaHandler{
		config: cfg,
		auth:   authHandler,
	}
}

// HandleMedia renders the user's media page.
func (h *MediaHandler) HandleMedia(c *fiber.Ctx) error {
	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Redirect("/login")
	}

	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	pageSize := defaultPageSize
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}

	listing, err := client.FetchUserMedia(c.Context(), page, pageSize)
	if err != nil {
		return c.Status(statusOf(err)).Render("error", fiber.Map{
			"Title": "Backend Error",
			"Error": userMessage(err),
			"Code":  statusOf(err),
		})
	}

	return c.Render("media", fiber.Map{
		"Title":     "My Media",
		"Listing":   listing,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleMediaAccess redirects to a time-limited signed URL for one item.
func (h *MediaHandler) HandleMediaAccess(c *fiber.Ctx) error {
	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Redirect("/login")
	}

	mediaID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media id"})
	}

	signedURL, err := client.FetchMediaAccessURL(c.Context(), mediaID)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	return c.Redirect(signedURL, fiber.StatusFound)
}

// HandleUploadURL returns a presigned upload target for a new file. The
// browser uploads straight to storage, then registers the result.
func (h *MediaHandler) HandleUploadURL(c *fiber.Ctx) error {
	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file name"})
	}

	uploadURL, err := client.FetchUploadURL(c.Context(), name)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	return c.JSON(fiber.Map{"url": uploadURL})
}

// HandleRegisterMedia records a finished upload in the backend registry.
func (h *MediaHandler) HandleRegisterMedia(c *fiber.Ctx) error {
	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	name := c.Params("name")
	registered, err := client.RegisterMedia(c.Context(), name)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	sessionID, _ := c.Locals("sessionID").(string)
	h.auth.Alerts().Push(sessionID, "", "Upload registered", models.AlertSuccess)

	return c.JSON(registered)
}

// HandleDeleteMedia removes one media item, then sends the caller back to
// the listing.
func (h *MediaHandler) HandleDeleteMedia(c *fiber.Ctx) error {
	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	mediaID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media id"})
	}
	mediaName := c.Params("name")

	if err := client.DeleteMedia(c.Context(), mediaID, mediaName); err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	sessionID, _ := c.Locals("sessionID").(string)
	h.auth.Alerts().Push(sessionID, "", "Media deleted", models.AlertDefault)

	return c.JSON(fiber.Map{"success": true})
}
