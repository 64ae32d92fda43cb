package dto

// CreateGalleryRequest creates a gallery. Slug and access key are generated when empty.
type CreateGalleryRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=150"`
	Slug        string `json:"slug" validate:"omitempty,max=64,slug"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	AccessKey   string `json:"access_key" validate:"omitempty,accesskey"`
	IsPublic    bool   `json:"is_public"`
	EventDate   string `json:"event_date" validate:"omitempty,eventdate"`
	CoverImage  string `json:"cover_image" validate:"omitempty,coverimage"`
}

// UpdateGalleryRequest changes only the fields that are present.
type UpdateGalleryRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=150"`
	Slug        *string `json:"slug" validate:"omitempty,max=64,slug"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	AccessKey   *string `json:"access_key" validate:"omitempty,accesskey"`
	IsPublic    *bool   `json:"is_public"`
	EventDate   *string `json:"event_date" validate:"omitempty,eventdate"`
	CoverImage  *string `json:"cover_image" validate:"omitempty,coverimage"`
}

type ListGalleriesQuery struct {
	Page       int    `query:"page"`
	PageSize   int    `query:"page_size" validate:"omitempty,max=1000"`
	Search     string `query:"q" validate:"omitempty,max=200"`
	PublicOnly bool   `query:"public_only"`
	OrderBy    string `query:"order_by" validate:"omitempty,oneof=created_at event_date title"`
	Order      string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type FeedQuery struct {
	Cursor string `query:"cursor" validate:"omitempty,max=200"`
	Limit  int    `query:"limit"`
}

type HomepageQuery struct {
	Limit            int  `query:"limit"`
	PhotosPerGallery *int `query:"-"`
}

type GalleryPhotosQuery struct {
	Key   string `query:"key"`
	Limit int    `query:"limit"`
}

type AccessKeyRequest struct {
	Length int `json:"length" validate:"omitempty,min=6,max=64"`
}
