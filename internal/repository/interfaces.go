package repository

import (
	"context"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/pagination"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	GrantAdmin(ctx context.Context, userID uuid.UUID, role string) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type GalleryRepository interface {
	CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error)
	UpdateGallery(ctx context.Context, id int64, update models.GalleryUpdate) (models.Gallery, error)
	DeleteGallery(ctx context.Context, id int64) error
	GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error)
	GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error)
	ListGalleries(ctx context.Context, filter models.GalleryFilter, window pagination.Window) ([]models.Gallery, int, error)
	// GalleryFeed returns up to fetch rows strictly after the cursor.
	GalleryFeed(ctx context.Context, publicOnly bool, after *models.Cursor, fetch int) ([]models.Gallery, error)
	RecentPublicGalleries(ctx context.Context, limit int) ([]models.Gallery, error)
}

type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
	GetPhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (models.Photo, error)
	ListPhotos(ctx context.Context, filter models.PhotoFilter, window pagination.Window) ([]models.Photo, int, error)
	GalleryPhotos(ctx context.Context, galleryID int64, limit int) ([]models.Photo, error)
	PhotosForGalleries(ctx context.Context, galleryIDs []int64, perGallery int) ([]models.Photo, error)
	FeaturedPhotos(ctx context.Context, limit int) ([]models.Photo, error)
	// ScanPhotoMeta returns up to limit rows with id > after, ordered by id.
	ScanPhotoMeta(ctx context.Context, after uuid.UUID, limit int) ([]models.PhotoMeta, error)
	UpdatePhotoMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) error
}

type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection models.Collection) (models.Collection, error)
	UpdateCollection(ctx context.Context, id int64, update models.CollectionUpdate) (models.Collection, error)
	DeleteCollection(ctx context.Context, id int64) error
	GetCollectionByID(ctx context.Context, id int64) (models.Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (models.Collection, error)
	ListCollections(ctx context.Context, filter models.CollectionFilter, window pagination.Window) ([]models.Collection, int, error)
	AllCollections(ctx context.Context, limit int) ([]models.Collection, error)
	CollectionGalleries(ctx context.Context, collectionID int64) ([]models.Gallery, error)
	LinkGallery(ctx context.Context, collectionID, galleryID int64) error
	UnlinkGallery(ctx context.Context, collectionID, galleryID int64) error
}

type StatsRepository interface {
	CountPhotos(ctx context.Context, featuredOnly bool) (int, error)
	CountGalleries(ctx context.Context, publicOnly bool) (int, error)
	CountCollections(ctx context.Context) (int, error)
	PhotoTimestampsSince(ctx context.Context, since time.Time, limit int) ([]time.Time, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
