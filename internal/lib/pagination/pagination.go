// Package pagination shapes listing queries: offset windows with exact page
// metadata, and keyset cursors over (created_at DESC, id DESC).
package pagination

import (
	"strings"

	"tkphotos/internal/domain/models"
)

// Window is a normalized offset range. From and To are inclusive row indexes.
type Window struct {
	Page     int
	PageSize int
	From     int
	To       int
}

// Normalize clamps page to >= 1 and pageSize to [1, max].
func Normalize(page, pageSize, max int) Window {
	if page < 1 {
		page = 1
	}
	pageSize = Clamp(pageSize, 1, max)

	from := (page - 1) * pageSize

	return Window{
		Page:     page,
		PageSize: pageSize,
		From:     from,
		To:       from + pageSize - 1,
	}
}

// Default returns def when v is zero, meaning the caller did not send a value.
func Default(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (w Window) Offset() uint64 { return uint64(w.From) }

func (w Window) Limit() uint64 { return uint64(w.PageSize) }

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PageCount is ceil(total/pageSize), or 0 when there are no rows.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func NewPage[T any](items []T, w Window, total int) models.Page[T] {
	if items == nil {
		items = []T{}
	}
	pageCount := PageCount(total, w.PageSize)

	return models.Page[T]{
		Data:      items,
		Page:      w.Page,
		PageSize:  w.PageSize,
		Total:     total,
		PageCount: pageCount,
		HasMore:   w.Page < pageCount,
	}
}

// EmptyPage is the shape returned when the listing query failed.
func EmptyPage[T any](w Window, err error) models.Page[T] {
	p := models.Page[T]{
		Data:     []T{},
		Page:     w.Page,
		PageSize: w.PageSize,
	}
	if err != nil {
		p.Error = err.Error()
	}
	return p
}

// Search trims raw and reports whether a filter should be applied.
func Search(raw string) (string, bool) {
	term := strings.TrimSpace(raw)
	return term, term != ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching term anywhere in the column.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
