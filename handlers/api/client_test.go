package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"xfront/config"
	"xfront/models"
	"xfront/utils"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.BackendConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
		SessionCookie:  "session",
	}
	return NewClient(cfg), srv
}

func appError(t *testing.T, err error) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an AppError, got %T: %v", err, err)
	}
	return appErr
}

func TestFetchUserInfoDecodesUser(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.UserInfo{
			Username: "alice",
			FullName: "Alice Doe",
			Role:     "admin",
		})
	}))

	user, err := client.FetchUserInfo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchUserInfo failed: %v", err)
	}
	if user.Username != "alice" || user.Role != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !user.IsAdmin() {
		t.Fatal("expected IsAdmin for role admin")
	}
}

func TestBackendDetailSurfacesVerbatim(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already exists."})
	}))

	_, err := client.CreateUser(context.Background(), models.CreateUserRequest{Username: "alice"})
	appErr := appError(t, err)

	if appErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", appErr.Code)
	}
	if appErr.Message != "Username already exists." {
		t.Fatalf("expected the backend detail verbatim, got %q", appErr.Message)
	}
}

func TestMissingDetailFallsBackToFixedMessage(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	}))

	_, err := client.FetchUserInfo(context.Background(), "alice")
	appErr := appError(t, err)

	if appErr.Message != "Failed to fetch user info due to a network or server error." {
		t.Fatalf("expected the fixed fallback message, got %q", appErr.Message)
	}
}

func TestNetworkFailureYieldsFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing is listening anymore

	cfg := &config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 1, SessionCookie: "session"}
	client := NewClient(cfg)

	err := client.LoginUser(context.Background(), "alice", "secret")
	appErr := appError(t, err)

	if appErr.Message != "Failed to log in user due to a network or server error." {
		t.Fatalf("expected the login fallback message, got %q", appErr.Message)
	}
}

func TestLoginCapturesSessionCookie(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "upstream-token"})
		w.Write([]byte(`{}`))
	}))

	if err := client.LoginUser(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if client.SessionCookie() != "upstream-token" {
		t.Fatalf("expected the captured cookie, got %q", client.SessionCookie())
	}
}

func TestWithSessionCookieAttachesCookie(t *testing.T) {
	var seen string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			seen = c.Value
		}
		json.NewEncoder(w).Encode(models.UserInfo{Username: "alice"})
	}))

	bound := client.WithSessionCookie("stored-token")
	if _, err := bound.CheckSession(context.Background()); err != nil {
		t.Fatalf("CheckSession failed: %v", err)
	}
	if seen != "stored-token" {
		t.Fatalf("expected the bound cookie on the wire, got %q", seen)
	}
	if client.SessionCookie() != "" {
		t.Fatal("binding a cookie must not mutate the original client")
	}
}

func TestNonLoginResponsesDoNotCaptureCookies(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "rotated-token"})
		json.NewEncoder(w).Encode(models.UserInfo{Username: "alice"})
	}))

	bound := client.WithSessionCookie("stored-token")
	if _, err := bound.FetchUserInfo(context.Background(), "alice"); err != nil {
		t.Fatalf("FetchUserInfo failed: %v", err)
	}

	if bound.SessionCookie() != "stored-token" {
		t.Fatalf("a GET response cookie must not overwrite the bound cookie, got %q", bound.SessionCookie())
	}
	if client.SessionCookie() != "" {
		t.Fatalf("the anonymous client must stay cookie-free, got %q", client.SessionCookie())
	}
}

func TestBoundClientIsSafeForConcurrentCalls(t *testing.T) {
	// The profile page issues the own-info and all-users fetches on one bound
	// client at the same time while the backend refreshes the session cookie
	// on every response.
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "refreshed-" + r.URL.Path})
		if r.URL.Path == "/users/all_users/" {
			json.NewEncoder(w).Encode(models.PaginatedUsers{Page: 1, PageSize: 10, TotalUsers: 1})
			return
		}
		json.NewEncoder(w).Encode(models.UserInfo{Username: "alice"})
	}))

	bound := client.WithSessionCookie("stored-token")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := bound.FetchUserInfo(context.Background(), "alice"); err != nil {
				t.Errorf("FetchUserInfo failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := bound.FetchAllUsersInfo(context.Background(), 1, 10); err != nil {
				t.Errorf("FetchAllUsersInfo failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if bound.SessionCookie() != "stored-token" {
		t.Fatalf("concurrent calls must not mutate the bound cookie, got %q", bound.SessionCookie())
	}
}

func TestFetchAllUsersInfoSendsPagination(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/all_users/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("page_size") != "10" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(models.PaginatedUsers{
			Users:      []models.UserInfo{{Username: "u"}},
			Page:       3,
			PageSize:   10,
			TotalUsers: 31,
		})
	}))

	listing, err := client.FetchAllUsersInfo(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("FetchAllUsersInfo failed: %v", err)
	}
	if listing.Page != 3 || listing.TotalUsers != 31 {
		t.Fatalf("unexpected listing: %+v", listing)
	}
}

func TestUpdateUserInfoSendsPartialBody(t *testing.T) {
	var body map[string]interface{}
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(models.UserInfo{Username: "alice", Role: "admin"})
	}))

	update := models.UpdateUserRequest{Role: "admin"}
	if _, err := client.UpdateUserInfo(context.Background(), "alice", update); err != nil {
		t.Fatalf("UpdateUserInfo failed: %v", err)
	}

	if body["role"] != "admin" {
		t.Fatalf("expected role in the body, got %v", body)
	}
	if _, ok := body["password"]; ok {
		t.Fatal("empty fields must be omitted from a partial update")
	}
}

func TestCancelledContextShortCircuits(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("a cancelled context must not reach the backend")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchUserInfo(ctx, "alice"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
