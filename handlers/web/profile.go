// handlers/web/profile.go
package web

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"xfront/config"
	"xfront/handlers/api"
	"xfront/models"
	"xfront/utils"
)

const defaultPageSize = 10

// ProfileHandler drives the profile page: own account data for everyone,
// plus the paginated all-users table with the role editor for admins.
type ProfileHandler struct {
	store  *session.Store
	config *config.Config
	auth   *AuthHandler
	cache  *utils.MemoryCache
	hub    *api.AlertHub
}

// NewProfileHandler creates a new instance of ProfileHandler
func NewProfileHandler(store *session.Store, cfg *config.Config, authHandler *AuthHandler, cache *utils.MemoryCache, hub *api.AlertHub) *ProfileHandler {
	return &ProfileHandler{
		store:  store,
		config: cfg,
		auth:   authHandler,
		cache:  cache,
		hub:    hub,
	}
}

// HandleProfile renders the profile page. The own-info fetch and, for
// admins, the page-1 all-users fetch are issued concurrently; they are
// independent and no ordering between them is enforced. Any failure is a
// terminal error page, no automatic retry.
func (h *ProfileHandler) HandleProfile(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)
	sessionID, _ := c.Locals("sessionID").(string)

	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Redirect("/login")
	}

	pageSize := defaultPageSize
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}

	var (
		wg       sync.WaitGroup
		userInfo *models.UserInfo
		userErr  error
		listErr  error
		userList *models.UserList
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		userInfo, userErr = client.FetchUserInfo(c.Context(), username)
	}()

	if role == models.RoleAdmin {
		userList = models.NewUserList(pageSize)
		wg.Add(1)
		go func() {
			defer wg.Done()
			listErr = userList.Refresh(c.Context(), client.FetchAllUsersInfo)
		}()
	}

	wg.Wait()

	if userErr != nil {
		return h.renderError(c, userErr)
	}
	if listErr != nil {
		return h.renderError(c, listErr)
	}

	data := fiber.Map{
		"Title":     "Profile",
		"UserInfo":  userInfo,
		"IsAdmin":   userInfo.IsAdmin(),
		"CSRFToken": c.Locals("csrf"),
	}

	if userList != nil {
		// Navigating to the profile starts a fresh listing; any previously
		// accumulated pages from an earlier visit are discarded.
		h.cache.Set(userListKey(sessionID), userList, h.config.Session.SessionExpiration())

		data["AllUsers"] = userList.Users()
		data["TotalUsers"] = userList.TotalUsers()
		data["Page"] = userList.Page()
		data["HasMore"] = userList.HasMore()
	}

	if sess, err := h.store.Get(c); err == nil {
		touchSession(sess, h.config.Session.SessionExpiration())
	}

	return c.Render("profile", data)
}

// HandleLoadMore appends the next page of the all-users listing and renders
// the refreshed table partial.
func (h *ProfileHandler) HandleLoadMore(c *fiber.Ctx) error {
	userList, client, err := h.adminListing(c)
	if err != nil {
		return err
	}

	if err := userList.LoadMore(c.Context(), client.FetchAllUsersInfo); err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	return h.renderUsersTable(c, userList)
}

// HandleEditRole renders the role-editor side panel for one user.
func (h *ProfileHandler) HandleEditRole(c *fiber.Ctx) error {
	_, client, err := h.adminListing(c)
	if err != nil {
		return err
	}

	target := c.Params("username")
	userInfo, err := client.FetchUserInfo(c.Context(), target)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	return c.Render("partials/edit_role", fiber.Map{
		"User":      userInfo,
		"CSRFToken": c.Locals("csrf"),
	}, "")
}

// HandleUpdateRole applies a role or password edit to the selected user and
// resets the listing to page 1. The reset is the contract: a successful edit
// always re-fetches page 1 and discards every "load more" page.
func (h *ProfileHandler) HandleUpdateRole(c *fiber.Ctx) error {
	userList, client, err := h.adminListing(c)
	if err != nil {
		return err
	}

	target := c.Params("username")
	update := models.UpdateUserRequest{
		Role:     c.FormValue("role"),
		Password: c.FormValue("password"),
	}
	if update.Role == "" && update.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}
	if update.Role != "" && update.Role != models.RoleAdmin && update.Role != models.RoleUser {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown role"})
	}

	if _, err := client.UpdateUserInfo(c.Context(), target, update); err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	if err := userList.Refresh(c.Context(), client.FetchAllUsersInfo); err != nil {
		return h.renderError(c, err)
	}

	sessionID, _ := c.Locals("sessionID").(string)
	alert := h.auth.Alerts().Push(sessionID, "", "Updated "+target, models.AlertSuccess)
	h.hub.Broadcast(alert)

	return h.renderUsersTable(c, userList)
}

// HandleUpdateAccount applies the user's own edits (fullname, email,
// password) and renders the refreshed profile-info partial.
func (h *ProfileHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	sessionID, _ := c.Locals("sessionID").(string)

	client, err := h.auth.ClientFor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in"})
	}

	update := models.UpdateUserRequest{
		FullName: c.FormValue("fullname"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	userInfo, err := client.UpdateUserInfo(c.Context(), username, update)
	if err != nil {
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": userMessage(err)})
	}

	alert := h.auth.Alerts().Push(sessionID, "", "Account updated", models.AlertSuccess)
	h.hub.Broadcast(alert)

	return c.Render("partials/profile_info", fiber.Map{
		"UserInfo": userInfo,
	}, "")
}

// adminListing resolves the session's user listing and backend client,
// rejecting non-admins. Callers turn the returned failure into a response.
func (h *ProfileHandler) adminListing(c *fiber.Ctx) (*models.UserList, *api.Client, error) {
	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin {
		return nil, nil, utils.ForbiddenError("Access denied", nil)
	}

	client, err := h.auth.ClientFor(c)
	if err != nil {
		return nil, nil, utils.UnauthorizedError("Not logged in", err)
	}

	sessionID, _ := c.Locals("sessionID").(string)
	key := userListKey(sessionID)

	if cached, ok := h.cache.Get(key); ok {
		if userList, ok := cached.(*models.UserList); ok {
			return userList, client, nil
		}
	}

	// The page state expired from the cache; start over at page 1.
	userList := models.NewUserList(defaultPageSize)
	if err := userList.Refresh(c.Context(), client.FetchAllUsersInfo); err != nil {
		return nil, nil, err
	}
	h.cache.Set(key, userList, h.config.Session.SessionExpiration())

	return userList, client, nil
}

func (h *ProfileHandler) renderUsersTable(c *fiber.Ctx, userList *models.UserList) error {
	return c.Render("partials/users_table", fiber.Map{
		"AllUsers":   userList.Users(),
		"TotalUsers": userList.TotalUsers(),
		"Page":       userList.Page(),
		"HasMore":    userList.HasMore(),
		"CSRFToken":  c.Locals("csrf"),
	}, "")
}

func (h *ProfileHandler) renderError(c *fiber.Ctx, err error) error {
	utils.Log.Error("Profile flow error: %v", err)
	return c.Status(statusOf(err)).Render("error", fiber.Map{
		"Title": "Backend Error",
		"Error": userMessage(err),
		"Code":  statusOf(err),
	})
}

func userListKey(sessionID string) string {
	return "userlist:" + sessionID
}
