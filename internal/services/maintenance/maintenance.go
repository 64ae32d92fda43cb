// Package maintenance holds operator-triggered sweeps over the photo catalogue.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/imageprobe"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/lib/validation"
	"tkphotos/internal/metrics"
	"tkphotos/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

var (
	ErrAlreadyRunning = errors.New("metadata update already running")
	ErrFetchPhotos    = errors.New("failed to fetch photos")
)

const (
	DefaultConcurrency = 4
	MaxConcurrency     = 12
	DefaultBatchSize   = 500
	DefaultLockTTL     = 30 * time.Minute

	maxErrorSamples = 10
	lockName        = "photo-metadata-backfill"
)

type PhotoStore interface {
	ScanPhotoMeta(ctx context.Context, after uuid.UUID, limit int) ([]models.PhotoMeta, error)
	UpdatePhotoMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) error
}

type Prober interface {
	Probe(ctx context.Context, url string) (imageprobe.Result, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

type Options struct {
	Force       bool
	Concurrency int
}

type ErrorSample struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type Summary struct {
	Total        int           `json:"total"`
	Processed    int           `json:"processed"`
	Updated      int           `json:"updated"`
	Skipped      int           `json:"skipped"`
	Errors       int           `json:"errors"`
	ErrorSamples []ErrorSample `json:"error_samples"`
	DurationMS   int64         `json:"duration_ms"`
}

type Config struct {
	BatchSize int
	LockTTL   time.Duration
}

type MetadataService struct {
	log    *slog.Logger
	photos PhotoStore
	prober Prober
	locker Locker
	cfg    Config
}

// NewMetadataService builds the backfill. locker may be nil, then runs are not serialized.
func NewMetadataService(log *slog.Logger, photos PhotoStore, prober Prober, locker Locker, cfg Config) *MetadataService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}

	return &MetadataService{
		log:    log,
		photos: photos,
		prober: prober,
		locker: locker,
		cfg:    cfg,
	}
}

// Concurrency returns the pool size used for a requested value.
func Concurrency(requested int) int {
	if requested == 0 {
		return DefaultConcurrency
	}
	return pagination.Clamp(requested, 1, MaxConcurrency)
}

// Run makes sure every photo carries numeric width and height. Per-photo
// failures are counted in the summary; only a failed catalogue scan aborts.
func (s *MetadataService) Run(ctx context.Context, opts Options) (Summary, error) {
	const op = "maintenance.MetadataService.Run"

	concurrency := Concurrency(opts.Concurrency)

	log := s.log.With(
		slog.String("op", op),
		slog.Bool("force", opts.Force),
		slog.Int("concurrency", concurrency),
	)

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, lockName, s.cfg.LockTTL)
		if err != nil {
			if errors.Is(err, storage.ErrLockHeld) {
				log.Warn("metadata update already running")
				return Summary{}, ErrAlreadyRunning
			}
			log.Error("failed to acquire lock", sl.Err(err))
			return Summary{}, fmt.Errorf("%s: %w", op, err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release lock", sl.Err(err))
			}
		}()
	}

	log.Info("metadata update started")

	started := time.Now()
	t := &tally{}
	sem := semaphore.NewWeighted(int64(concurrency))

	runErr := s.dispatch(ctx, opts.Force, sem, t)

	// every in-flight task must finish before the summary is read
	if err := sem.Acquire(context.WithoutCancel(ctx), int64(concurrency)); err != nil {
		log.Error("failed to drain pool", sl.Err(err))
	}

	elapsed := time.Since(started)
	metrics.BackfillDuration.Observe(elapsed.Seconds())

	if runErr != nil {
		log.Error("metadata update aborted", sl.Err(runErr))
		return Summary{}, runErr
	}

	summary := t.summary(elapsed)

	log.Info("metadata update finished",
		slog.Int("total", summary.Total),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Errors),
		slog.Int64("duration_ms", summary.DurationMS),
	)

	return summary, nil
}

func (s *MetadataService) dispatch(ctx context.Context, force bool, sem *semaphore.Weighted, t *tally) error {
	after := uuid.Nil
	for {
		batch, err := s.photos.ScanPhotoMeta(ctx, after, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFetchPhotos, err)
		}

		for _, p := range batch {
			t.seen()

			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			go func(p models.PhotoMeta) {
				defer sem.Release(1)
				s.process(ctx, p, force, t)
			}(p)
		}

		if len(batch) < s.cfg.BatchSize {
			return nil
		}
		after = batch[len(batch)-1].ID
	}
}

func (s *MetadataService) process(ctx context.Context, p models.PhotoMeta, force bool, t *tally) {
	t.processed()

	if _, _, ok := p.Metadata.Dimensions(); ok && !force {
		t.skipped()
		return
	}
	if !validation.IsHTTPURL(p.StorageKey) {
		t.skipped()
		return
	}

	res, err := s.prober.Probe(ctx, p.StorageKey)
	if err != nil {
		s.log.Debug("probe failed", slog.String("photo_id", p.ID.String()), sl.Err(err))
		t.failed(p.ID, err)
		return
	}
	if res.Empty() {
		t.skipped()
		return
	}

	if err := s.photos.UpdatePhotoMetadata(ctx, p.ID, p.Metadata.WithDimensions(res.Width, res.Height, res.Type)); err != nil {
		t.failed(p.ID, err)
		return
	}

	t.updated()
}

type tally struct {
	mu sync.Mutex
	s  Summary
}

func (t *tally) seen() {
	t.mu.Lock()
	t.s.Total++
	t.mu.Unlock()
}

func (t *tally) processed() {
	t.mu.Lock()
	t.s.Processed++
	t.mu.Unlock()
}

func (t *tally) skipped() {
	t.mu.Lock()
	t.s.Skipped++
	t.mu.Unlock()
	metrics.BackfillRecords.WithLabelValues("skipped").Inc()
}

func (t *tally) updated() {
	t.mu.Lock()
	t.s.Updated++
	t.mu.Unlock()
	metrics.BackfillRecords.WithLabelValues("updated").Inc()
}

func (t *tally) failed(id uuid.UUID, err error) {
	t.mu.Lock()
	t.s.Errors++
	if len(t.s.ErrorSamples) < maxErrorSamples {
		t.s.ErrorSamples = append(t.s.ErrorSamples, ErrorSample{ID: id.String(), Reason: err.Error()})
	}
	t.mu.Unlock()
	metrics.BackfillRecords.WithLabelValues("error").Inc()
}

func (t *tally) summary(elapsed time.Duration) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.s
	out.ErrorSamples = append([]ErrorSample{}, t.s.ErrorSamples...)
	out.DurationMS = elapsed.Milliseconds()
	return out
}
