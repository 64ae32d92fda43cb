package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"tkphotos/internal/domain/models"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Encode renders c as an opaque URL-safe token.
func Encode(c models.Cursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatInt(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func Decode(token string) (models.Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return models.Cursor{}, ErrInvalidCursor
	}

	ts, id, ok := strings.Cut(string(b), "|")
	if !ok {
		return models.Cursor{}, ErrInvalidCursor
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return models.Cursor{}, ErrInvalidCursor
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.Cursor{}, ErrInvalidCursor
	}

	return models.Cursor{CreatedAt: createdAt, ID: n}, nil
}

// DecodeOptional treats an empty token as "start from the newest row".
func DecodeOptional(token string) (*models.Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	c, err := Decode(token)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Before reports whether the row (createdAt, id) sorts strictly after c under
// (created_at DESC, id DESC), i.e. whether it belongs to a later page.
func Before(c models.Cursor, createdAt time.Time, id int64) bool {
	if createdAt.Before(c.CreatedAt) {
		return true
	}
	return createdAt.Equal(c.CreatedAt) && id < c.ID
}

// Trim cuts an over-fetched result (limit+1 rows) down to limit and returns the
// cursor of the last kept row when more rows exist.
func Trim[T any](rows []T, limit int, key func(T) models.Cursor) ([]T, *models.Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	next := key(rows[limit-1])
	return rows, &next
}

func NewCursorPage[T any](rows []T, limit int, key func(T) models.Cursor) models.CursorPage[T] {
	data, next := Trim(rows, limit, key)
	if data == nil {
		data = []T{}
	}

	page := models.CursorPage[T]{Data: data}
	if next != nil {
		page.NextCursor = Encode(*next)
		page.HasMore = true
	}
	return page
}

func EmptyCursorPage[T any](err error) models.CursorPage[T] {
	p := models.CursorPage[T]{Data: []T{}}
	if err != nil {
		p.Error = err.Error()
	}
	return p
}
