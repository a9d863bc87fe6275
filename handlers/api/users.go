// handlers/api/users.go
package api

import (
	"context"
	"fmt"

	"xfront/models"
)

// FetchUserInfo retrieves one user record by username.
func (c *Client) FetchUserInfo(ctx context.Context, username string) (*models.UserInfo, error) {
	var user models.UserInfo
	err := c.doJSON(ctx, "GET", "/users/"+pathSegment(username), nil, &user,
		"Failed to fetch user info due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserInfo applies a partial update and returns the updated record.
func (c *Client) UpdateUserInfo(ctx context.Context, username string, update models.UpdateUserRequest) (*models.UserInfo, error) {
	var user models.UserInfo
	err := c.doJSON(ctx, "PUT", "/users/"+pathSegment(username), update, &user,
		"Failed to update user info due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser signs up a new user.
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.CreateUserResponse, error) {
	var created models.CreateUserResponse
	err := c.doJSON(ctx, "POST", "/users/", req, &created,
		"Failed to sign up user due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// LoginUser establishes an upstream session. On success the session cookie
// the backend sets is captured into the client. This is the only call that
// writes the cookie; it runs on a fresh client per login attempt.
func (c *Client) LoginUser(ctx context.Context, username, password string) error {
	req := models.LoginRequest{Username: username, Password: password}
	cookie, err := c.do(ctx, "POST", "/users/login", req, nil,
		"Failed to log in user due to a network or server error.")
	if err != nil {
		return err
	}
	if cookie != "" {
		c.cookie = cookie
	}
	return nil
}

// LogoutUser tears down the upstream session.
func (c *Client) LogoutUser(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/users/logout", nil, nil,
		"Failed to log out due to a network or server error.")
}

// CheckSession validates the attached session cookie and returns the user it
// belongs to.
func (c *Client) CheckSession(ctx context.Context) (*models.UserInfo, error) {
	var user models.UserInfo
	err := c.doJSON(ctx, "GET", "/users/session/check", nil, &user,
		"Failed to check session due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchAllUsersInfo retrieves one page of the user listing. Admin only on
// the backend side.
func (c *Client) FetchAllUsersInfo(ctx context.Context, page, pageSize int) (*models.PaginatedUsers, error) {
	var listing models.PaginatedUsers
	path := fmt.Sprintf("/users/all_users/?page=%d&page_size=%d", page, pageSize)
	err := c.doJSON(ctx, "GET", path, nil, &listing,
		"Failed to fetch users due to a network or server error.")
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
