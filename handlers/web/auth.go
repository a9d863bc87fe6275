// handlers/web/auth.go
package web

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"xfront/auth"
	"xfront/config"
	"xfront/handlers/api"
	"xfront/models"
	"xfront/utils"
)

type AuthHandler struct {
	store   *session.Store
	config  *config.Config
	manager *auth.Manager
	client  *api.Client
	alerts  *utils.AlertManager
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(store *session.Store, cfg *config.Config, manager *auth.Manager, client *api.Client, alerts *utils.AlertManager) *AuthHandler {
	return &AuthHandler{
		store:   store,
		config:  cfg,
		manager: manager,
		client:  client,
		alerts:  alerts,
	}
}

// ShowLogin renders the login page. An existing session is re-validated
// against the backend first, so a returning browser lands on the profile
// without typing credentials again.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil && sess.Get(api.SessionKeyAuthenticated) == true {
		var st auth.State
		h.manager.Hydrate(c.Context(), &st, h.sessionCookie(sess))
		if st.LoggedIn {
			return c.Redirect("/profile")
		}
		// Stale belief; the backend no longer honors the cookie
		_ = sess.Destroy()
	}

	return c.Render("login", fiber.Map{
		"Title":     "Log In",
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleLogin processes the login form
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return c.Status(500).SendString("Session error")
	}

	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))

	if username == "" || password == "" {
		return c.Status(400).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     "Username and password are required",
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	var st auth.State
	cookie, err := h.manager.Login(c.Context(), &st, username, password)
	if err != nil {
		return c.Status(401).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     userMessage(err),
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	// Learn the role for role-gated rendering
	h.manager.Hydrate(c.Context(), &st, cookie)
	if !st.LoggedIn {
		return c.Status(401).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     "Login succeeded but the session could not be verified",
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	sealed, err := api.SealCookie(cookie, h.config.Encryption.Key)
	if err != nil {
		utils.Log.Error("Failed to seal upstream cookie: %v", err)
		return c.Status(500).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     "Failed to secure credentials",
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	token, err := api.GenerateToken(st.Username, st.Role, h.config.JWT.Secret, h.config.Session.SessionExpiration())
	if err != nil {
		return c.Status(500).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     "Failed to create authentication token",
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	sess.Set(api.SessionKeyAuthenticated, true)
	sess.Set(api.SessionKeyUsername, st.Username)
	sess.Set(api.SessionKeyRole, st.Role)
	sess.Set(api.SessionKeyToken, token)
	sess.Set(api.SessionKeyCredentials, sealed)
	sess.SetExpiry(h.config.Session.SessionExpiration())

	if err := sess.Save(); err != nil {
		return c.Status(500).Render("login", fiber.Map{
			"Title":     "Log In",
			"Error":     "Failed to create session",
			"Username":  username,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	h.alerts.Push(sess.ID(), "", "Welcome back, "+st.Username, models.AlertSuccess)

	return c.Redirect("/profile")
}

// HandleLogout tears down the session. The local session is destroyed no
// matter what the backend says; logout is best-effort on the wire.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return c.Redirect("/login")
	}

	var st auth.State
	h.manager.Logout(c.Context(), &st, h.sessionCookie(sess))

	if err := sess.Destroy(); err != nil {
		utils.Log.Error("Failed to destroy session: %v", err)
	}

	return c.Redirect("/login")
}

// ShowSignup renders the signup page
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	return c.Render("signup", fiber.Map{
		"Title":     "Sign Up",
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleSignup processes the signup form
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	req := models.CreateUserRequest{
		Username: strings.TrimSpace(c.FormValue("username")),
		Password: c.FormValue("password"),
		FullName: strings.TrimSpace(c.FormValue("fullname")),
		Email:    strings.TrimSpace(c.FormValue("email")),
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.Status(400).Render("signup", fiber.Map{
			"Title":     "Sign Up",
			"Error":     "Username, password and email are required",
			"Form":      req,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	created, err := h.client.CreateUser(c.Context(), req)
	if err != nil {
		return c.Status(statusOf(err)).Render("signup", fiber.Map{
			"Title":     "Sign Up",
			"Error":     userMessage(err),
			"Form":      req,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	utils.Log.Info("User signed up: %s", created.Username)

	return c.Render("login", fiber.Map{
		"Title":     "Log In",
		"Notice":    "Account created, you can log in now",
		"Username":  created.Username,
		"CSRFToken": c.Locals("csrf"),
	})
}

// ClientFor returns a backend client bound to the session's upstream cookie.
func (h *AuthHandler) ClientFor(c *fiber.Ctx) (*api.Client, error) {
	sess, err := h.store.Get(c)
	if err != nil {
		return nil, utils.UnauthorizedError("Session error", err)
	}

	cookie := h.sessionCookie(sess)
	if cookie == "" {
		return nil, utils.UnauthorizedError("No credentials found in session", nil)
	}

	return h.client.WithSessionCookie(cookie), nil
}

// Alerts exposes the alert manager to sibling handlers.
func (h *AuthHandler) Alerts() *utils.AlertManager {
	return h.alerts
}

// sessionCookie unseals the stored upstream cookie, or returns empty.
func (h *AuthHandler) sessionCookie(sess *session.Session) string {
	sealed, ok := sess.Get(api.SessionKeyCredentials).(string)
	if !ok || sealed == "" {
		return ""
	}

	cookie, err := api.OpenCookie(sealed, h.config.Encryption.Key)
	if err != nil {
		utils.Log.Warn("Failed to unseal upstream cookie: %v", err)
		return ""
	}
	return cookie
}

// userMessage extracts the single human-readable message every endpoint
// failure carries.
func userMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong, please try again."
}

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
		return appErr.Code
	}
	return fiber.StatusInternalServerError
}

// touchSession refreshes the rolling expiry on authenticated page views.
func touchSession(sess *session.Session, ttl time.Duration) {
	sess.SetExpiry(ttl)
	if err := sess.Save(); err != nil {
		utils.Log.Debug("Failed to refresh session expiry: %v", err)
	}
}
