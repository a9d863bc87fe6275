// Package auth owns the client-side session belief: whether the browser's
// session is logged in and as whom. The backend cookie is the source of
// truth; State is a cache of it, hydrated via session-check and cleared on
// logout.
package auth

import (
	"context"

	"xfront/models"
	"xfront/utils"
)

// UserAPI is the slice of the backend client the auth flow needs.
type UserAPI interface {
	LoginUser(ctx context.Context, username, password string) error
	LogoutUser(ctx context.Context) error
	CheckSession(ctx context.Context) (*models.UserInfo, error)
	SessionCookie() string
}

// Factory builds a backend client bound to an upstream session cookie. An
// empty cookie yields an anonymous client.
type Factory func(cookie string) UserAPI

// State is the per-session belief about authentication.
type State struct {
	LoggedIn bool
	Username string
	Role     string
}

// Manager performs the login, logout and hydrate transitions on a State.
type Manager struct {
	newClient Factory
	log       *utils.Logger
}

// NewManager creates a manager around the given client factory.
func NewManager(newClient Factory, log *utils.Logger) *Manager {
	if log == nil {
		log = utils.Log
	}
	return &Manager{newClient: newClient, log: log}
}

// Login establishes an upstream session. On success the state becomes
// logged-in as the given username and the captured upstream cookie is
// returned for persistence. On failure the state is left untouched and the
// normalized failure is returned.
func (m *Manager) Login(ctx context.Context, st *State, username, password string) (string, error) {
	client := m.newClient("")
	if err := client.LoginUser(ctx, username, password); err != nil {
		return "", err
	}

	st.LoggedIn = true
	st.Username = username
	st.Role = ""
	return client.SessionCookie(), nil
}

// Logout tears down the upstream session best-effort and always clears the
// local state, network outcome or not. One policy for every call site.
func (m *Manager) Logout(ctx context.Context, st *State, cookie string) {
	if cookie != "" {
		client := m.newClient(cookie)
		if err := client.LogoutUser(ctx); err != nil {
			m.log.Warn("Backend logout failed, clearing local session anyway: %v", err)
		}
	}
	*st = State{}
}

// Hydrate validates the stored cookie against the backend and fills the
// state from the answer. Any failure leaves the state logged-out without
// surfacing an error; an invalid session is not a user-facing problem.
func (m *Manager) Hydrate(ctx context.Context, st *State, cookie string) {
	if cookie == "" {
		*st = State{}
		return
	}

	client := m.newClient(cookie)
	user, err := client.CheckSession(ctx)
	if err != nil {
		m.log.Debug("Session check failed: %v", err)
		*st = State{}
		return
	}

	st.LoggedIn = true
	st.Username = user.Username
	st.Role = user.Role
}
