package dto

type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Slug        string `json:"slug" validate:"omitempty,max=64,slug"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateCollectionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,max=64,slug"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type ListCollectionsQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size" validate:"omitempty,max=1000"`
	Search   string `query:"q" validate:"omitempty,max=200"`
	OrderBy  string `query:"order_by" validate:"omitempty,oneof=created_at name"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type LinkGalleryRequest struct {
	GalleryID int64 `json:"gallery_id" validate:"required,min=1"`
}

type AllCollectionsQuery struct {
	Limit int `query:"limit"`
}
