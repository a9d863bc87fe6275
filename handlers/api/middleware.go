// handlers/api/middleware.go
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"xfront/utils"
)

// Session keys shared with the web handlers.
const (
	SessionKeyAuthenticated = "authenticated"
	SessionKeyUsername      = "username"
	SessionKeyRole          = "role"
	SessionKeyToken         = "token"
	SessionKeyCredentials   = "credentials"
)

// IsAPIRequest reports whether the request expects JSON rather than a page.
func IsAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}

	// HTMX partial requests are API requests too
	if c.Get("HX-Request") != "" {
		return true
	}

	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

// SessionMiddleware gates protected routes. A valid session with a valid
// front-end token exposes the username, role and session ID via Locals;
// anything else gets a JSON 401 for API requests or a login redirect for
// pages.
func SessionMiddleware(store *session.Store, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return reject(c, "Session error")
		}

		if sess.Get(SessionKeyAuthenticated) != true {
			return reject(c, "Not logged in")
		}

		token, _ := sess.Get(SessionKeyToken).(string)
		claims, err := ValidateToken(token, jwtSecret)
		if err != nil {
			utils.Log.Warn("Rejecting session with invalid token: %v", err)
			_ = sess.Destroy()
			return reject(c, "Session expired")
		}

		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals("sessionID", sess.ID())
		bindAuthState(c, claims)

		return c.Next()
	}
}

// OptionalSessionMiddleware exposes the auth belief to public pages (the
// header renders Profile/LogOut vs LogIn) without ever rejecting a request.
func OptionalSessionMiddleware(store *session.Store, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}

		if sess.Get(SessionKeyAuthenticated) == true {
			token, _ := sess.Get(SessionKeyToken).(string)
			if claims, err := ValidateToken(token, jwtSecret); err == nil {
				c.Locals("username", claims.Username)
				c.Locals("role", claims.Role)
				c.Locals("sessionID", sess.ID())
				c.Locals("isLoggedIn", true)
				bindAuthState(c, claims)
			}
		}

		return c.Next()
	}
}

// bindAuthState makes the login state visible to every template render,
// the layout's header in particular.
func bindAuthState(c *fiber.Ctx, claims *TokenClaims) {
	_ = c.Bind(fiber.Map{
		"IsLoggedIn":  true,
		"CurrentUser": claims.Username,
		"IsAdminUser": claims.Role == "admin",
	})
}

func reject(c *fiber.Ctx, message string) error {
	if IsAPIRequest(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": message,
		})
	}
	return c.Redirect("/login")
}
