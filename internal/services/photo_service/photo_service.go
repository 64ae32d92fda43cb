package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/lib/slug"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/repository"
	"tkphotos/internal/storage"
	filestorage "tkphotos/internal/storage/filestorage"
	"tkphotos/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrGalleryNotFound = errors.New("gallery not found")
)

const (
	DefaultPageSize = 40
	MaxPageSize     = 200

	DefaultFeaturedLimit = 12
	MaxFeaturedLimit     = 48
)

type GalleryStore interface {
	GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error)
	UpdateGallery(ctx context.Context, id int64, update models.GalleryUpdate) (models.Gallery, error)
}

type PhotoService struct {
	log         *slog.Logger
	repo        repository.PhotoRepository
	galleries   GalleryStore
	fileStorage filestorage.FileStorage
}

func NewPhotoService(log *slog.Logger, repo repository.PhotoRepository, galleries GalleryStore, fileStorage filestorage.FileStorage) *PhotoService {
	return &PhotoService{
		log:         log,
		repo:        repo,
		galleries:   galleries,
		fileStorage: fileStorage,
	}
}

// CreatePhoto stores the row for an object that is already in storage.
func (s *PhotoService) CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error) {
	const op = "service.PhotoService.CreatePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("gallery_id", photo.GalleryID),
		slog.String("filename", photo.Filename),
	)

	photo.Filename = slug.SanitizeFilename(photo.Filename)
	photo.StorageKey = strings.TrimSpace(photo.StorageKey)
	if !validation.ValidStorageKey(photo.StorageKey) {
		return models.Photo{}, validation.NewError("storage_key", "must be an http(s) URL or a relative path without '..'")
	}
	if photo.Caption != nil {
		photo.Caption = optional(*photo.Caption)
	}

	if _, err := s.galleries.GetGalleryByID(ctx, photo.GalleryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Photo{}, ErrGalleryNotFound
		}
		log.Error("failed to get gallery", sl.Err(err))
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreatePhoto(ctx, photo)
	if err != nil {
		// the gallery can vanish between the check and the insert
		if errors.Is(err, storage.ErrNotFound) {
			return models.Photo{}, ErrGalleryNotFound
		}
		log.Error("failed to save photo", sl.Err(err))
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo created", slog.String("photo_id", created.ID.String()))

	return s.withURL(created), nil
}

func (s *PhotoService) CreateFromRequest(ctx context.Context, req dto.CreatePhotoRequest) (models.Photo, error) {
	return s.CreatePhoto(ctx, models.Photo{
		Filename:   req.Filename,
		StorageKey: req.StorageKey,
		GalleryID:  req.GalleryID,
		Caption:    req.Caption,
		IsFeatured: req.IsFeatured,
	})
}

// DeletePhoto removes the row and then, for objects we host, the stored file.
// A failed file delete is logged and does not fail the call.
func (s *PhotoService) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	const op = "service.PhotoService.DeletePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", id.String()),
	)

	photo, err := s.repo.GetPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPhotoNotFound
		}
		log.Error("failed to get photo", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeletePhoto(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPhotoNotFound
		}
		log.Error("failed to delete photo", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if !validation.IsHTTPURL(photo.StorageKey) {
		if err := s.fileStorage.Delete(ctx, photo.StorageKey); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			log.Warn("failed to delete stored file", slog.String("key", photo.StorageKey), sl.Err(err))
		}
	}

	log.Info("photo deleted")

	return nil
}

func (s *PhotoService) ToggleFeatured(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "service.PhotoService.ToggleFeatured"

	p, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Photo{}, ErrPhotoNotFound
		}
		s.log.Error("failed to toggle featured", slog.String("op", op), sl.Err(err))
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.withURL(p), nil
}

// SetAsCover makes the photo the cover of its own gallery.
func (s *PhotoService) SetAsCover(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "service.PhotoService.SetAsCover"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", id.String()),
	)

	p, err := s.repo.GetPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Gallery{}, ErrPhotoNotFound
		}
		log.Error("failed to get photo", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	key := p.StorageKey
	g, err := s.galleries.UpdateGallery(ctx, p.GalleryID, models.GalleryUpdate{CoverImage: &key})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Gallery{}, ErrGalleryNotFound
		}
		log.Error("failed to set cover", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery cover set", slog.Int64("gallery_id", g.ID))

	return g, nil
}

func (s *PhotoService) GetPhoto(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "service.PhotoService.GetPhoto"

	p, err := s.repo.GetPhotoByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Photo{}, ErrPhotoNotFound
		}
		s.log.Error("failed to get photo", slog.String("op", op), sl.Err(err))
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.withURL(p), nil
}

func (s *PhotoService) ListPhotos(ctx context.Context, q dto.ListPhotosQuery) models.Page[models.Photo] {
	const op = "service.PhotoService.ListPhotos"

	w := pagination.Normalize(q.Page, pagination.Default(q.PageSize, DefaultPageSize), MaxPageSize)
	filter := models.PhotoFilter{
		GalleryID:    q.GalleryID,
		FeaturedOnly: q.FeaturedOnly,
		Search:       q.Search,
		OrderBy:      q.OrderBy,
		Ascending:    q.Order == "asc",
	}

	rows, total, err := s.repo.ListPhotos(ctx, filter, w)
	if err != nil {
		s.log.Error("failed to list photos", slog.String("op", op), sl.Err(err))
		return pagination.EmptyPage[models.Photo](w, errors.New("failed to load photos"))
	}

	for i := range rows {
		rows[i] = s.withURL(rows[i])
	}

	return pagination.NewPage(rows, w, total)
}

func (s *PhotoService) FeaturedPhotos(ctx context.Context, limit int) ([]models.Photo, error) {
	const op = "service.PhotoService.FeaturedPhotos"

	limit = pagination.Clamp(pagination.Default(limit, DefaultFeaturedLimit), 1, MaxFeaturedLimit)

	photos, err := s.repo.FeaturedPhotos(ctx, limit)
	if err != nil {
		s.log.Error("failed to load featured photos", slog.String("op", op), sl.Err(err))
		return []models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	for i := range photos {
		photos[i] = s.withURL(photos[i])
	}

	return photos, nil
}

// PhotoSrc is the URL a browser loads the photo from.
func (s *PhotoService) PhotoSrc(p models.Photo) string {
	return filestorage.ResolveURL(s.fileStorage, p.StorageKey)
}

func (s *PhotoService) withURL(p models.Photo) models.Photo {
	p.URL = s.PhotoSrc(p)
	return p
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
