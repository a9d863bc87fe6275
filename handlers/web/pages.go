// handlers/web/pages.go
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"xfront/config"
	"xfront/models"
	"xfront/utils"
)

// TeamMember is an entry on the about page.
type TeamMember struct {
	Name        string
	Position    string
	Description string
	ImageURL    string
}

var teamMembers = []TeamMember{
	{
		Name:        "Jane Doe",
		Position:    "Lead Developer",
		Description: "Expert in frontend technologies and UX design.",
		ImageURL:    "/assets/img/dear.jpeg",
	},
	{
		Name:        "John Smith",
		Position:    "Project Manager",
		Description: "Skilled in project management and team leadership.",
		ImageURL:    "/assets/img/bear.jpeg",
	},
	{
		Name:        "Alice Johnson",
		Position:    "Founder",
		Description: "Passionate about creating innovative tech solutions.",
		ImageURL:    "/assets/img/spider.jpg",
	},
}

// PageHandler serves the mostly-static pages and the home feed.
type PageHandler struct {
	config *config.Config
	auth   *AuthHandler
	cache  *utils.MemoryCache
}

// NewPageHandler creates a new instance of PageHandler
func NewPageHandler(cfg *config.Config, authHandler *AuthHandler, cache *utils.MemoryCache) *PageHandler {
	return &PageHandler{
		config: cfg,
		auth:   authHandler,
		cache:  cache,
	}
}

// digest is a feed entry ready for rendering.
type digest struct {
	Media   models.Media
	Snippet string
}

// HandleHome renders the landing page, with the latest digests for a
// logged-in visitor. A feed failure degrades to the plain landing page
// rather than an error; the home page must always load.
func (h *PageHandler) HandleHome(c *fiber.Ctx) error {
	data := fiber.Map{
		"Title": "X-news",
	}

	if c.Locals("isLoggedIn") == true {
		sessionID, _ := c.Locals("sessionID").(string)
		data["Digests"] = h.feedFor(c, sessionID)
	}

	return c.Render("index", data)
}

// feedFor returns the session's cached home feed, fetching it when stale.
func (h *PageHandler) feedFor(c *fiber.Ctx, sessionID string) []digest {
	key := "feed:" + sessionID
	if cached, ok := h.cache.Get(key); ok {
		if feed, ok := cached.([]digest); ok {
			return feed
		}
	}

	client, err := h.auth.ClientFor(c)
	if err != nil {
		return nil
	}

	listing, err := client.FetchAllMedia(c.Context(), 1, 6)
	if err != nil {
		utils.Log.Warn("Home feed fetch failed: %v", err)
		return nil
	}

	feed := make([]digest, 0, len(listing.Media))
	for _, m := range listing.Media {
		feed = append(feed, digest{
			Media:   m,
			Snippet: utils.ExtractTextSnippet(utils.SanitizeDigest(m.Summary), 200),
		})
	}

	h.cache.Set(key, feed, time.Minute)
	return feed
}

// HandleAbout renders the about page
func (h *PageHandler) HandleAbout(c *fiber.Ctx) error {
	return c.Render("about", fiber.Map{
		"Title":       "About Us",
		"TeamMembers": teamMembers,
	})
}

// HandleContact renders the contact page
func (h *PageHandler) HandleContact(c *fiber.Ctx) error {
	return c.Render("contact", fiber.Map{
		"Title":     "Contact",
		"CSRFToken": c.Locals("csrf"),
	})
}
