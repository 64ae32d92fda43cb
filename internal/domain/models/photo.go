package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"storage_key"`
	GalleryID  int64     `json:"gallery_id"`
	Caption    *string   `json:"caption,omitempty"`
	IsFeatured bool      `json:"is_featured"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url,omitempty"`
}

// PhotoMeta is the projection scanned by the metadata backfill.
type PhotoMeta struct {
	ID         uuid.UUID
	StorageKey string
	Metadata   Metadata
}

type PhotoFilter struct {
	GalleryID    int64
	FeaturedOnly bool
	Search       string
	OrderBy      string
	Ascending    bool
}

const (
	PhotoOrderCreatedAt = "created_at"
	PhotoOrderFilename  = "filename"
)

type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}

// Dimensions reports numeric width and height when both are present.
func (m Metadata) Dimensions() (width, height int, ok bool) {
	w, wok := number(m["width"])
	h, hok := number(m["height"])
	if !wok || !hok {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// WithDimensions returns a copy of m with width, height and type set.
func (m Metadata) WithDimensions(width, height int, typ string) Metadata {
	out := make(Metadata, len(m)+3)
	for k, v := range m {
		out[k] = v
	}
	out["width"] = width
	out["height"] = height
	if typ != "" {
		out["type"] = typ
	}
	return out
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
