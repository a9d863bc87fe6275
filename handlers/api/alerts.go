// handlers/api/alerts.go
package api

import (
	"github.com/gofiber/fiber/v2"

	"xfront/utils"
)

// AlertsHandler exposes the session's active toasts.
type AlertsHandler struct {
	alerts *utils.AlertManager
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(alerts *utils.AlertManager) *AlertsHandler {
	return &AlertsHandler{alerts: alerts}
}

// GetAlerts returns the session's alerts that have not expired yet.
func (h *AlertsHandler) GetAlerts(c *fiber.Ctx) error {
	sessionID, _ := c.Locals("sessionID").(string)
	return c.JSON(fiber.Map{
		"alerts": h.alerts.Active(sessionID),
	})
}

// DismissAlert removes one alert immediately.
func (h *AlertsHandler) DismissAlert(c *fiber.Ctx) error {
	sessionID, _ := c.Locals("sessionID").(string)
	h.alerts.Dismiss(sessionID, c.Params("id"))
	return c.JSON(fiber.Map{"success": true})
}
