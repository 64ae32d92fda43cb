package models

import "time"

// Gallery is a named set of photos, optionally public, always carrying an access key.
type Gallery struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	AccessKey   string     `json:"access_key,omitempty"`
	IsPublic    bool       `json:"is_public"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	CoverImage  *string    `json:"cover_image,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Public returns a copy safe to show to visitors.
func (g Gallery) Public() Gallery {
	g.AccessKey = ""
	return g
}

// CursorKey returns the keyset position of the gallery under (created_at DESC, id DESC).
func (g Gallery) CursorKey() Cursor {
	return Cursor{CreatedAt: g.CreatedAt, ID: g.ID}
}

type GalleryWithPhotos struct {
	Gallery
	Photos []Photo `json:"photos"`
}

// GalleryUpdate carries only the fields an operator changed.
type GalleryUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	AccessKey   *string
	IsPublic    *bool
	EventDate   *time.Time
	CoverImage  *string
}

func (u GalleryUpdate) Empty() bool {
	return u.Title == nil && u.Slug == nil && u.Description == nil && u.AccessKey == nil &&
		u.IsPublic == nil && u.EventDate == nil && u.CoverImage == nil
}

type GalleryFilter struct {
	Search     string
	PublicOnly bool
	OrderBy    string
	Ascending  bool
}

const (
	GalleryOrderCreatedAt = "created_at"
	GalleryOrderEventDate = "event_date"
	GalleryOrderTitle     = "title"
)
