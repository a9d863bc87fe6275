package api

import (
	"xfront/utils"

	"github.com/gofiber/fiber/v2"
)

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if lang == "" {
		lang = "en"
	}

	// Only allow supported languages
	if lang != "en" && lang != "ja" {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	// Translation keys used by client-side JavaScript
	translations := map[string]string{
		"alert_dismiss":   utils.T(localizer, "alert_dismiss"),
		"load_more":       utils.T(localizer, "load_more"),
		"loading":         utils.T(localizer, "loading"),
		"role_updated":    utils.T(localizer, "role_updated"),
		"account_updated": utils.T(localizer, "account_updated"),
		"confirm_delete":  utils.T(localizer, "confirm_delete"),
		"confirm_yes":     utils.T(localizer, "confirm_yes"),
		"confirm_no":      utils.T(localizer, "confirm_no"),
		"error_network":   utils.T(localizer, "error_network"),
		"error_404":       utils.T(localizer, "error_404"),
		"error_500":       utils.T(localizer, "error_500"),
	}

	return c.JSON(translations)
}
