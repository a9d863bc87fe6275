package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeUserPages serves a fixed population of users page by page and records
// every fetch it handles.
type fakeUserPages struct {
	total   int
	fetches [][2]int // page, pageSize
	fail    bool
}

func (f *fakeUserPages) fetch(_ context.Context, page, pageSize int) (*PaginatedUsers, error) {
	f.fetches = append(f.fetches, [2]int{page, pageSize})
	if f.fail {
		return nil, errors.New("backend down")
	}

	start := (page - 1) * pageSize
	var users []UserInfo
	for i := start; i < start+pageSize && i < f.total; i++ {
		users = append(users, UserInfo{Username: fmt.Sprintf("user%03d", i)})
	}

	return &PaginatedUsers{
		Users:      users,
		Page:       page,
		PageSize:   pageSize,
		TotalUsers: f.total,
	}, nil
}

func TestUserListRefreshLoadsPageOne(t *testing.T) {
	backend := &fakeUserPages{total: 25}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if got := len(list.Users()); got != 10 {
		t.Fatalf("expected 10 users after refresh, got %d", got)
	}
	if list.Page() != 1 {
		t.Fatalf("expected page 1, got %d", list.Page())
	}
	if list.TotalUsers() != 25 {
		t.Fatalf("expected total 25, got %d", list.TotalUsers())
	}
	if !list.HasMore() {
		t.Fatal("expected more pages to be available")
	}
}

func TestUserListLoadMoreAppends(t *testing.T) {
	backend := &fakeUserPages{total: 25}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if err := list.LoadMore(context.Background(), backend.fetch); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	users := list.Users()
	if len(users) != 20 {
		t.Fatalf("expected 20 users after one load-more, got %d", len(users))
	}
	if users[10].Username != "user010" {
		t.Fatalf("expected second page to continue the listing, got %q", users[10].Username)
	}
	if list.Page() != 2 {
		t.Fatalf("expected page 2, got %d", list.Page())
	}
	if !list.HasMore() {
		t.Fatal("expected a final short page to remain")
	}

	// Third page is short; after it the listing is complete.
	if err := list.LoadMore(context.Background(), backend.fetch); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if got := len(list.Users()); got != 25 {
		t.Fatalf("expected all 25 users, got %d", got)
	}
	if list.HasMore() {
		t.Fatal("expected no more pages once every user is loaded")
	}
}

func TestUserListExactBoundary(t *testing.T) {
	// 20 users at page size 10: page 2 covers the total exactly.
	backend := &fakeUserPages{total: 20}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if err := list.LoadMore(context.Background(), backend.fetch); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	if list.HasMore() {
		t.Fatal("page*pageSize == totalUsers must mean no more pages")
	}

	// A further load-more is a no-op, not a fetch.
	before := len(backend.fetches)
	if err := list.LoadMore(context.Background(), backend.fetch); err != nil {
		t.Fatalf("no-op LoadMore failed: %v", err)
	}
	if len(backend.fetches) != before {
		t.Fatal("exhausted LoadMore should not hit the backend")
	}
}

func TestUserListRefreshDiscardsAccumulatedPages(t *testing.T) {
	backend := &fakeUserPages{total: 25}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if err := list.LoadMore(context.Background(), backend.fetch); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}

	// The reset after an edit goes back to page 1 contents only.
	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if got := len(list.Users()); got != 10 {
		t.Fatalf("expected refresh to discard loaded pages, got %d users", got)
	}
	if list.Page() != 1 {
		t.Fatalf("expected page 1 after refresh, got %d", list.Page())
	}
}

func TestUserListFetchFailureLeavesStateUntouched(t *testing.T) {
	backend := &fakeUserPages{total: 25}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	backend.fail = true
	if err := list.LoadMore(context.Background(), backend.fetch); err == nil {
		t.Fatal("expected LoadMore to surface the fetch error")
	}

	if got := len(list.Users()); got != 10 {
		t.Fatalf("failed LoadMore must not change the listing, got %d users", got)
	}
	if list.Page() != 1 {
		t.Fatalf("failed LoadMore must not advance the page, got %d", list.Page())
	}
}

func TestUserListSerializesLoadMoreAndRefresh(t *testing.T) {
	backend := &fakeUserPages{total: 25}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// A load-more and an edit-triggered refresh racing must never interleave:
	// the outcome is one full operation followed by the other, so the final
	// listing is either page 1 alone or pages 1+2, never a torn mix.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = list.LoadMore(context.Background(), backend.fetch)
	}()
	go func() {
		defer wg.Done()
		_ = list.Refresh(context.Background(), backend.fetch)
	}()
	wg.Wait()

	got := len(list.Users())
	if got != 10 && got != 20 {
		t.Fatalf("expected a serialized outcome of 10 or 20 users, got %d", got)
	}
	if got == 10 && list.Page() != 1 {
		t.Fatalf("refresh-last outcome must sit on page 1, got %d", list.Page())
	}
	if got == 20 && list.Page() != 2 {
		t.Fatalf("load-more-last outcome must sit on page 2, got %d", list.Page())
	}
}

func TestUserListUsersReturnsCopy(t *testing.T) {
	backend := &fakeUserPages{total: 5}
	list := NewUserList(10)

	if err := list.Refresh(context.Background(), backend.fetch); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	users := list.Users()
	users[0].Username = "mutated"

	if list.Users()[0].Username == "mutated" {
		t.Fatal("Users must return a copy, not the internal slice")
	}
}
