package models

import "time"

// Page is the result of an offset-paginated listing. Error is set instead of
// returning a Go error so callers can always render the page shell.
type Page[T any] struct {
	Data      []T    `json:"data"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	Total     int    `json:"total"`
	PageCount int    `json:"page_count"`
	HasMore   bool   `json:"has_more"`
	Error     string `json:"error,omitempty"`
}

// Cursor marks the last row of a page under (created_at DESC, id DESC).
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

type CursorPage[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	Error      string `json:"error,omitempty"`
}
