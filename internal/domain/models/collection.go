package models

import "time"

type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CollectionWithGalleries struct {
	Collection
	Galleries []Gallery `json:"galleries"`
}

type CollectionUpdate struct {
	Name        *string
	Slug        *string
	Description *string
}

func (u CollectionUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Description == nil
}

type CollectionFilter struct {
	Search    string
	OrderBy   string
	Ascending bool
}

const (
	CollectionOrderCreatedAt = "created_at"
	CollectionOrderName      = "name"
)
