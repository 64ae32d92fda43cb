package services

import (
	"context"
	"log/slog"
	"time"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/pagination"
	"tkphotos/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultDays = 14
	MaxDays     = 90

	// timestamps scanned for the daily histogram
	MaxScannedPhotos = 5000

	dayLayout = "2006-01-02"
)

type StatsService struct {
	log  *slog.Logger
	repo repository.StatsRepository
	now  func() time.Time
}

func NewStatsService(log *slog.Logger, repo repository.StatsRepository) *StatsService {
	return &StatsService{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
}

// Dashboard counts everything in parallel. Any failure yields zeroed stats
// with Error set, never a Go error.
func (s *StatsService) Dashboard(ctx context.Context, days int) models.DashboardStats {
	const op = "service.StatsService.Dashboard"

	log := s.log.With(slog.String("op", op))

	days = pagination.Clamp(pagination.Default(days, DefaultDays), 1, MaxDays)
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	var (
		totals     models.StatsTotals
		timestamps []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals.Photos, err = s.repo.CountPhotos(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		totals.FeaturedPhotos, err = s.repo.CountPhotos(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		totals.Galleries, err = s.repo.CountGalleries(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		totals.PublicGalleries, err = s.repo.CountGalleries(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		totals.Collections, err = s.repo.CountCollections(gctx)
		return err
	})
	g.Go(func() (err error) {
		timestamps, err = s.repo.PhotoTimestampsSince(gctx, start, MaxScannedPhotos)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to collect stats", sl.Err(err))
		return models.DashboardStats{
			PhotosLastNDays: dailyBuckets(start, days, nil),
			GeneratedAt:     now,
			Error:           "failed to load stats",
		}
	}

	return models.DashboardStats{
		Totals:          totals,
		PhotosLastNDays: dailyBuckets(start, days, timestamps),
		GeneratedAt:     now,
	}
}

// dailyBuckets returns one entry per day from start, oldest first, zero-filled.
func dailyBuckets(start time.Time, days int, timestamps []time.Time) []models.DailyCount {
	out := make([]models.DailyCount, days)
	index := make(map[string]int, days)
	for i := range out {
		d := start.AddDate(0, 0, i).Format(dayLayout)
		out[i] = models.DailyCount{Date: d}
		index[d] = i
	}

	for _, ts := range timestamps {
		if i, ok := index[ts.UTC().Format(dayLayout)]; ok {
			out[i].Count++
		}
	}

	return out
}
