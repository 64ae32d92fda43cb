package dto

type CreatePhotoRequest struct {
	Filename   string  `json:"filename" validate:"required,max=255"`
	StorageKey string  `json:"storage_key" validate:"required,storagekey"`
	GalleryID  int64   `json:"gallery_id" validate:"required,min=1"`
	Caption    *string `json:"caption" validate:"omitempty,max=500"`
	IsFeatured bool    `json:"is_featured"`
}

type ListPhotosQuery struct {
	Page         int    `query:"page"`
	PageSize     int    `query:"page_size" validate:"omitempty,max=1000"`
	GalleryID    int64  `query:"gallery_id" validate:"omitempty,min=1"`
	FeaturedOnly bool   `query:"featured_only"`
	Search       string `query:"q" validate:"omitempty,max=200"`
	OrderBy      string `query:"order_by" validate:"omitempty,oneof=created_at filename"`
	Order        string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type FeaturedPhotosQuery struct {
	Limit int `query:"limit"`
}
