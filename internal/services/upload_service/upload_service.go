// Package services coordinates batch photo uploads: files go to object
// storage first, then each one gets a photo record.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/metrics"
	"tkphotos/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrSessionNotFound = errors.New("upload session not found")
	ErrGalleryNotFound = errors.New("gallery not found")
)

const DefaultSessionTTL = 30 * time.Minute

type GalleryProvider interface {
	GetGalleryByID(ctx context.Context, id int64) (models.Gallery, error)
}

type UploadService struct {
	log       *slog.Logger
	sessions  *cache.Cache
	galleries GalleryProvider
	store     ObjectStore
	creator   PhotoCreator
	limits    Limits
}

func NewUploadService(log *slog.Logger, galleries GalleryProvider, store ObjectStore, creator PhotoCreator, limits Limits, ttl time.Duration) *UploadService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	s := &UploadService{
		log:       log,
		sessions:  cache.New(ttl, ttl/2),
		galleries: galleries,
		store:     store,
		creator:   creator,
		limits:    limits,
	}
	// expiry and cancel both end here
	s.sessions.OnEvicted(s.evicted)

	return s
}

func (s *UploadService) evicted(id string, v interface{}) {
	metrics.UploadSessionsActive.Dec()

	sess, ok := v.(*Session)
	if !ok {
		return
	}
	if keys := sess.orphans(); len(keys) > 0 {
		s.log.Warn("upload session closed with unsaved objects",
			slog.String("session_id", id),
			slog.Int64("gallery_id", sess.GalleryID),
			slog.Any("orphaned_keys", keys),
		)
	}
}

func (s *UploadService) Open(ctx context.Context, galleryID int64) (View, error) {
	const op = "services.UploadService.Open"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("gallery_id", galleryID),
	)

	if _, err := s.galleries.GetGalleryByID(ctx, galleryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("gallery not found")
			return View{}, ErrGalleryNotFound
		}
		log.Error("failed to load gallery", sl.Err(err))
		return View{}, fmt.Errorf("%s: %w", op, err)
	}

	sess := newSession(uuid.NewString(), galleryID, s.limits)
	s.sessions.SetDefault(sess.ID, sess)
	metrics.UploadSessionsActive.Inc()

	log.Info("upload session opened", slog.String("session_id", sess.ID))

	return sess.View(), nil
}

func (s *UploadService) session(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess := v.(*Session)
	// every touch extends the session
	s.sessions.SetDefault(id, sess)
	return sess, nil
}

func (s *UploadService) Get(id string) (View, error) {
	sess, err := s.session(id)
	if err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// AddFiles filters the candidates into the session and uploads whatever is pending.
func (s *UploadService) AddFiles(ctx context.Context, id string, candidates []Candidate) (View, []Rejection, error) {
	const op = "services.UploadService.AddFiles"

	log := s.log.With(
		slog.String("op", op),
		slog.String("session_id", id),
	)

	sess, err := s.session(id)
	if err != nil {
		return View{}, nil, err
	}

	rejected, err := sess.Add(candidates)
	if err != nil {
		return View{}, nil, err
	}
	if len(rejected) > 0 {
		log.Info("files rejected", slog.Int("count", len(rejected)))
	}

	if err := sess.Upload(ctx, s.store); err != nil && !errors.Is(err, ErrNothingToUpload) {
		log.Error("upload failed", sl.Err(err))
		return View{}, rejected, err
	}

	return sess.View(), rejected, nil
}

func (s *UploadService) Persist(ctx context.Context, id string) (PersistReport, error) {
	const op = "services.UploadService.Persist"

	log := s.log.With(
		slog.String("op", op),
		slog.String("session_id", id),
	)

	sess, err := s.session(id)
	if err != nil {
		return PersistReport{}, err
	}

	report, err := sess.Persist(ctx, s.creator)
	if err != nil {
		return PersistReport{}, err
	}

	log.Info("upload session persisted",
		slog.Int("saved", len(report.Saved)),
		slog.Int("failed", len(report.Failed)),
	)

	if report.Done {
		s.sessions.Delete(id)
	}

	return report, nil
}

func (s *UploadService) Cancel(id string) error {
	if _, ok := s.sessions.Get(id); !ok {
		return ErrSessionNotFound
	}
	s.sessions.Delete(id)
	return nil
}
