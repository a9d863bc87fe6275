package models

import (
	"context"
	"sync"
)

// FetchUsersFunc fetches a single page of the all-users listing.
type FetchUsersFunc func(ctx context.Context, page, pageSize int) (*PaginatedUsers, error)

// UserList accumulates "load more" pages of the admin all-users listing for
// one profile view. The mutex is held across the fetch, so a load-more and an
// edit-triggered refresh are serialized rather than racing; the later caller
// always observes the earlier result.
//
// The page size is pinned at creation. A server that starts reporting a
// different page size mid-session is not reconciled.
type UserList struct {
	mu         sync.Mutex
	users      []UserInfo
	page       int
	pageSize   int
	totalUsers int
}

// NewUserList creates an empty list that paginates at the given page size.
func NewUserList(pageSize int) *UserList {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &UserList{pageSize: pageSize}
}

// Refresh discards every accumulated page and loads page 1. Used for the
// initial load and, deliberately, after any role edit: the listing resets to
// page 1 contents only, never an in-place patch.
func (l *UserList) Refresh(ctx context.Context, fetch FetchUsersFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	resp, err := fetch(ctx, 1, l.pageSize)
	if err != nil {
		return err
	}

	l.users = append([]UserInfo(nil), resp.Users...)
	l.page = resp.Page
	l.totalUsers = resp.TotalUsers
	return nil
}

// LoadMore appends the next page at the pinned page size and advances the
// page counter. When every user is already loaded it is a no-op.
func (l *UserList) LoadMore(ctx context.Context, fetch FetchUsersFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasMoreLocked() {
		return nil
	}

	next := l.page + 1
	resp, err := fetch(ctx, next, l.pageSize)
	if err != nil {
		return err
	}

	l.users = append(l.users, resp.Users...)
	l.page = next
	if resp.TotalUsers > 0 {
		l.totalUsers = resp.TotalUsers
	}
	return nil
}

// HasMore reports whether another page should be offered. The boundary is
// exact: once page*pageSize covers totalUsers, no more pages are offered.
func (l *UserList) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMoreLocked()
}

func (l *UserList) hasMoreLocked() bool {
	return l.page*l.pageSize < l.totalUsers
}

// Users returns a copy of the accumulated listing.
func (l *UserList) Users() []UserInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]UserInfo(nil), l.users...)
}

// Page returns the last loaded page number.
func (l *UserList) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// PageSize returns the pinned page size.
func (l *UserList) PageSize() int {
	return l.pageSize
}

// TotalUsers returns the backend-reported total.
func (l *UserList) TotalUsers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalUsers
}
