package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/lib/slug"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/repository"
	"tkphotos/internal/storage"
	filestorage "tkphotos/internal/storage/filestorage"
	"tkphotos/internal/transport/http/dto"
)

var (
	ErrGalleryNotFound = errors.New("gallery not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrNoChanges       = errors.New("no fields to update")
	ErrAccessDenied    = errors.New("access key required")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultFeedLimit = 20
	MaxFeedLimit     = 100

	DefaultHomepageLimit    = 3
	MaxHomepageLimit        = 12
	DefaultPhotosPerGallery = 1
	MaxPhotosPerGallery     = 8

	DefaultGalleryPhotos = 100
	MaxGalleryPhotos     = 500
)

type PhotoLister interface {
	GalleryPhotos(ctx context.Context, galleryID int64, limit int) ([]models.Photo, error)
	PhotosForGalleries(ctx context.Context, galleryIDs []int64, perGallery int) ([]models.Photo, error)
}

type GalleryService struct {
	log    *slog.Logger
	repo   repository.GalleryRepository
	photos PhotoLister
	urls   filestorage.URLResolver
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, photos PhotoLister, urls filestorage.URLResolver) *GalleryService {
	return &GalleryService{
		log:    log,
		repo:   repo,
		photos: photos,
		urls:   urls,
	}
}

// CreateGallery derives the slug from the title and generates an access key unless the request carries them.
func (s *GalleryService) CreateGallery(ctx context.Context, req dto.CreateGalleryRequest) (models.Gallery, error) {
	const op = "service.GalleryService.CreateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
	)

	log.Info("creating gallery")

	field := slug.FieldFor(req.Title, req.Slug)
	if !slug.Valid(field.Value) {
		return models.Gallery{}, validation.NewError("slug", "cannot be derived from title, set it explicitly")
	}

	accessKey := req.AccessKey
	if accessKey == "" {
		key, err := slug.AccessKey(slug.DefaultAccessKeyLength)
		if err != nil {
			log.Error("failed to generate access key", sl.Err(err))
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		accessKey = key
	}

	gallery := models.Gallery{
		Title:       strings.TrimSpace(req.Title),
		Slug:        field.Value,
		Description: optional(req.Description),
		AccessKey:   accessKey,
		IsPublic:    req.IsPublic,
		CoverImage:  optional(req.CoverImage),
	}
	if req.EventDate != "" {
		d, err := time.Parse(validation.DateLayout, req.EventDate)
		if err != nil {
			return models.Gallery{}, validation.NewError("event_date", "must be a date in YYYY-MM-DD format")
		}
		gallery.EventDate = &d
	}

	created, err := s.repo.CreateGallery(ctx, gallery)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Warn("slug already in use", slog.String("slug", gallery.Slug))
			return models.Gallery{}, ErrSlugTaken
		}
		log.Error("failed to create gallery", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery created", slog.Int64("id", created.ID))

	return created, nil
}

func (s *GalleryService) UpdateGallery(ctx context.Context, id int64, req dto.UpdateGalleryRequest) (models.Gallery, error) {
	const op = "service.GalleryService.UpdateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("gallery_id", id),
	)

	update := models.GalleryUpdate{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		AccessKey:   req.AccessKey,
		IsPublic:    req.IsPublic,
		CoverImage:  req.CoverImage,
	}
	if req.EventDate != nil {
		d, err := time.Parse(validation.DateLayout, *req.EventDate)
		if err != nil {
			return models.Gallery{}, validation.NewError("event_date", "must be a date in YYYY-MM-DD format")
		}
		update.EventDate = &d
	}
	if update.Empty() {
		return models.Gallery{}, ErrNoChanges
	}

	updated, err := s.repo.UpdateGallery(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.Gallery{}, ErrGalleryNotFound
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.Gallery{}, ErrSlugTaken
		}
		log.Error("failed to update gallery", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery updated")

	return updated, nil
}

func (s *GalleryService) DeleteGallery(ctx context.Context, id int64) error {
	const op = "service.GalleryService.DeleteGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("gallery_id", id),
	)

	if err := s.repo.DeleteGallery(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrGalleryNotFound
		}
		log.Error("failed to delete gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery deleted")

	return nil
}

func (s *GalleryService) GetGallery(ctx context.Context, id int64) (models.Gallery, error) {
	const op = "service.GalleryService.GetGallery"

	g, err := s.repo.GetGalleryByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Gallery{}, ErrGalleryNotFound
		}
		s.log.Error("failed to get gallery", slog.String("op", op), sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.withCover(g), nil
}

// ListGalleries never fails: a store error comes back as an empty page with Error set.
func (s *GalleryService) ListGalleries(ctx context.Context, q dto.ListGalleriesQuery) models.Page[models.Gallery] {
	const op = "service.GalleryService.ListGalleries"

	w := pagination.Normalize(q.Page, pagination.Default(q.PageSize, DefaultPageSize), MaxPageSize)
	filter := models.GalleryFilter{
		Search:     q.Search,
		PublicOnly: q.PublicOnly,
		OrderBy:    q.OrderBy,
		Ascending:  q.Order == "asc",
	}

	rows, total, err := s.repo.ListGalleries(ctx, filter, w)
	if err != nil {
		s.log.Error("failed to list galleries", slog.String("op", op), sl.Err(err))
		return pagination.EmptyPage[models.Gallery](w, errors.New("failed to load galleries"))
	}

	for i := range rows {
		rows[i] = s.withCover(rows[i])
	}

	return pagination.NewPage(rows, w, total)
}

// Feed pages by cursor. A malformed cursor is the only error returned.
func (s *GalleryService) Feed(ctx context.Context, publicOnly bool, q dto.FeedQuery) (models.CursorPage[models.Gallery], error) {
	const op = "service.GalleryService.Feed"

	after, err := pagination.DecodeOptional(q.Cursor)
	if err != nil {
		return models.CursorPage[models.Gallery]{}, validation.NewError("cursor", "is invalid")
	}
	limit := pagination.Clamp(pagination.Default(q.Limit, DefaultFeedLimit), 1, MaxFeedLimit)

	rows, err := s.repo.GalleryFeed(ctx, publicOnly, after, limit+1)
	if err != nil {
		s.log.Error("failed to load gallery feed", slog.String("op", op), sl.Err(err))
		return pagination.EmptyCursorPage[models.Gallery](errors.New("failed to load galleries")), nil
	}

	for i := range rows {
		rows[i] = s.withCover(rows[i])
	}

	return pagination.NewCursorPage(rows, limit, models.Gallery.CursorKey), nil
}

// Homepage returns the newest public galleries with a few photos each.
func (s *GalleryService) Homepage(ctx context.Context, q dto.HomepageQuery) ([]models.GalleryWithPhotos, error) {
	const op = "service.GalleryService.Homepage"

	log := s.log.With(slog.String("op", op))

	limit := pagination.Clamp(pagination.Default(q.Limit, DefaultHomepageLimit), 1, MaxHomepageLimit)
	perGallery := DefaultPhotosPerGallery
	if q.PhotosPerGallery != nil {
		perGallery = pagination.Clamp(*q.PhotosPerGallery, 0, MaxPhotosPerGallery)
	}

	galleries, err := s.repo.RecentPublicGalleries(ctx, limit)
	if err != nil {
		log.Error("failed to load galleries", sl.Err(err))
		return []models.GalleryWithPhotos{}, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]int64, len(galleries))
	for i, g := range galleries {
		ids[i] = g.ID
	}

	photos, err := s.photos.PhotosForGalleries(ctx, ids, perGallery)
	if err != nil {
		log.Error("failed to load photos", sl.Err(err))
		return []models.GalleryWithPhotos{}, fmt.Errorf("%s: %w", op, err)
	}

	byGallery := make(map[int64][]models.Photo, len(galleries))
	for _, p := range photos {
		p.URL = filestorage.ResolveURL(s.urls, p.StorageKey)
		byGallery[p.GalleryID] = append(byGallery[p.GalleryID], p)
	}

	out := make([]models.GalleryWithPhotos, 0, len(galleries))
	for _, g := range galleries {
		ps := byGallery[g.ID]
		if ps == nil {
			ps = []models.Photo{}
		}
		out = append(out, models.GalleryWithPhotos{Gallery: s.withCover(g).Public(), Photos: ps})
	}

	return out, nil
}

// OpenGallery loads a gallery by slug for a visitor. Non-public galleries need
// a matching access key unless the visitor was granted access earlier.
func (s *GalleryService) OpenGallery(ctx context.Context, slugValue, key string, granted bool, limit int) (models.GalleryWithPhotos, error) {
	const op = "service.GalleryService.OpenGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", slugValue),
	)

	g, err := s.repo.GetGalleryBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.GalleryWithPhotos{}, ErrGalleryNotFound
		}
		log.Error("failed to get gallery", sl.Err(err))
		return models.GalleryWithPhotos{}, fmt.Errorf("%s: %w", op, err)
	}

	if !g.IsPublic && !granted && !CheckAccessKey(g, key) {
		log.Info("gallery access denied")
		return models.GalleryWithPhotos{}, ErrAccessDenied
	}

	limit = pagination.Clamp(pagination.Default(limit, DefaultGalleryPhotos), 1, MaxGalleryPhotos)

	photos, err := s.photos.GalleryPhotos(ctx, g.ID, limit)
	if err != nil {
		log.Error("failed to load photos", sl.Err(err))
		return models.GalleryWithPhotos{}, fmt.Errorf("%s: %w", op, err)
	}
	for i := range photos {
		photos[i].URL = filestorage.ResolveURL(s.urls, photos[i].StorageKey)
	}

	return models.GalleryWithPhotos{Gallery: s.withCover(g).Public(), Photos: photos}, nil
}

// CheckAccessKey compares in constant time. An empty key never matches.
func CheckAccessKey(g models.Gallery, key string) bool {
	if key == "" || g.AccessKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.AccessKey), []byte(key)) == 1
}

// NewAccessKey returns a fresh key; a zero length means the default.
func (s *GalleryService) NewAccessKey(length int) (string, error) {
	length = pagination.Clamp(pagination.Default(length, slug.DefaultAccessKeyLength), slug.MinAccessKeyLength, slug.MaxAccessKeyLength)
	return slug.AccessKey(length)
}

func (s *GalleryService) withCover(g models.Gallery) models.Gallery {
	if g.CoverImage != nil && *g.CoverImage != "" {
		u := filestorage.ResolveURL(s.urls, *g.CoverImage)
		g.CoverImage = &u
	}
	return g
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
