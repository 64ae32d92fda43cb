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
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrGalleryNotFound    = errors.New("gallery not found")
	ErrAlreadyLinked      = errors.New("gallery already in collection")
	ErrNotLinked          = errors.New("gallery not in collection")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrNoChanges          = errors.New("no fields to update")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultAllLimit = 100
	MaxAllLimit     = 500
)

type GalleryProvider interface {
	GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error)
}

type CollectionService struct {
	log       *slog.Logger
	repo      repository.CollectionRepository
	galleries GalleryProvider
	urls      filestorage.URLResolver
}

func NewCollectionService(log *slog.Logger, repo repository.CollectionRepository, galleries GalleryProvider, urls filestorage.URLResolver) *CollectionService {
	return &CollectionService{
		log:       log,
		repo:      repo,
		galleries: galleries,
		urls:      urls,
	}
}

func (s *CollectionService) CreateCollection(ctx context.Context, req dto.CreateCollectionRequest) (models.Collection, error) {
	const op = "service.CollectionService.CreateCollection"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	field := slug.FieldFor(req.Name, req.Slug)
	if !slug.Valid(field.Value) {
		return models.Collection{}, validation.NewError("slug", "cannot be derived from name, set it explicitly")
	}

	created, err := s.repo.CreateCollection(ctx, models.Collection{
		Name:        strings.TrimSpace(req.Name),
		Slug:        field.Value,
		Description: optional(req.Description),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Collection{}, ErrSlugTaken
		}
		log.Error("failed to create collection", sl.Err(err))
		return models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("collection created", slog.Int64("id", created.ID))

	return created, nil
}

func (s *CollectionService) UpdateCollection(ctx context.Context, id int64, req dto.UpdateCollectionRequest) (models.Collection, error) {
	const op = "service.CollectionService.UpdateCollection"

	update := models.CollectionUpdate{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if update.Empty() {
		return models.Collection{}, ErrNoChanges
	}

	updated, err := s.repo.UpdateCollection(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.Collection{}, ErrCollectionNotFound
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.Collection{}, ErrSlugTaken
		}
		s.log.Error("failed to update collection", slog.String("op", op), slog.Int64("collection_id", id), sl.Err(err))
		return models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, id int64) error {
	const op = "service.CollectionService.DeleteCollection"

	if err := s.repo.DeleteCollection(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCollectionNotFound
		}
		s.log.Error("failed to delete collection", slog.String("op", op), slog.Int64("collection_id", id), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *CollectionService) GetCollection(ctx context.Context, id int64) (models.Collection, error) {
	const op = "service.CollectionService.GetCollection"

	c, err := s.repo.GetCollectionByID(ctx, id)
	if err != nil {
		return models.Collection{}, s.lookupErr(op, err)
	}
	return c, nil
}

func (s *CollectionService) GetCollectionBySlug(ctx context.Context, slugValue string) (models.Collection, error) {
	const op = "service.CollectionService.GetCollectionBySlug"

	c, err := s.repo.GetCollectionBySlug(ctx, slugValue)
	if err != nil {
		return models.Collection{}, s.lookupErr(op, err)
	}
	return c, nil
}

func (s *CollectionService) ListCollections(ctx context.Context, q dto.ListCollectionsQuery) models.Page[models.Collection] {
	const op = "service.CollectionService.ListCollections"

	w := pagination.Normalize(q.Page, pagination.Default(q.PageSize, DefaultPageSize), MaxPageSize)
	filter := models.CollectionFilter{
		Search:    q.Search,
		OrderBy:   q.OrderBy,
		Ascending: q.Order == "asc",
	}

	rows, total, err := s.repo.ListCollections(ctx, filter, w)
	if err != nil {
		s.log.Error("failed to list collections", slog.String("op", op), sl.Err(err))
		return pagination.EmptyPage[models.Collection](w, errors.New("failed to load collections"))
	}

	return pagination.NewPage(rows, w, total)
}

// AllCollections is the unpaginated list used by pickers.
func (s *CollectionService) AllCollections(ctx context.Context, limit int) ([]models.Collection, error) {
	const op = "service.CollectionService.AllCollections"

	limit = pagination.Clamp(pagination.Default(limit, DefaultAllLimit), 1, MaxAllLimit)

	rows, err := s.repo.AllCollections(ctx, limit)
	if err != nil {
		s.log.Error("failed to load collections", slog.String("op", op), sl.Err(err))
		return []models.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

// WithGalleries loads a collection by slug with its galleries, as visitors see them.
func (s *CollectionService) WithGalleries(ctx context.Context, slugValue string) (models.CollectionWithGalleries, error) {
	const op = "service.CollectionService.WithGalleries"

	c, err := s.repo.GetCollectionBySlug(ctx, slugValue)
	if err != nil {
		return models.CollectionWithGalleries{}, s.lookupErr(op, err)
	}

	galleries, err := s.repo.CollectionGalleries(ctx, c.ID)
	if err != nil {
		s.log.Error("failed to load galleries", slog.String("op", op), slog.Int64("collection_id", c.ID), sl.Err(err))
		return models.CollectionWithGalleries{}, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.Gallery, 0, len(galleries))
	for _, g := range galleries {
		if g.CoverImage != nil && *g.CoverImage != "" {
			u := filestorage.ResolveURL(s.urls, *g.CoverImage)
			g.CoverImage = &u
		}
		out = append(out, g.Public())
	}

	return models.CollectionWithGalleries{Collection: c, Galleries: out}, nil
}

func (s *CollectionService) LinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	const op = "service.CollectionService.LinkGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("collection_id", collectionID),
		slog.Int64("gallery_id", galleryID),
	)

	if _, err := s.repo.GetCollectionByID(ctx, collectionID); err != nil {
		return s.lookupErr(op, err)
	}

	if _, err := s.galleries.GetGalleryByID(ctx, galleryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrGalleryNotFound
		}
		log.Error("failed to get gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.LinkGallery(ctx, collectionID, galleryID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return ErrAlreadyLinked
		case errors.Is(err, storage.ErrNotFound):
			return ErrGalleryNotFound
		}
		log.Error("failed to link gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery linked")

	return nil
}

func (s *CollectionService) UnlinkGallery(ctx context.Context, collectionID, galleryID int64) error {
	const op = "service.CollectionService.UnlinkGallery"

	if err := s.repo.UnlinkGallery(ctx, collectionID, galleryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotLinked
		}
		s.log.Error("failed to unlink gallery", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *CollectionService) lookupErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCollectionNotFound
	}
	s.log.Error("failed to get collection", slog.String("op", op), sl.Err(err))
	return fmt.Errorf("%s: %w", op, err)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
