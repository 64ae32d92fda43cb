package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "tkphotos/internal/app/http"
	"tkphotos/internal/config"
	"tkphotos/internal/lib/imageprobe"
	"tkphotos/internal/repository"
	"tkphotos/internal/services/auth"
	collections "tkphotos/internal/services/collection_service"
	contact "tkphotos/internal/services/contact_service"
	galleries "tkphotos/internal/services/gallery_service"
	"tkphotos/internal/services/maintenance"
	photos "tkphotos/internal/services/photo_service"
	stats "tkphotos/internal/services/stats_service"
	tokens "tkphotos/internal/services/token_service"
	uploads "tkphotos/internal/services/upload_service"
	filestorage "tkphotos/internal/storage/filestorage"
	"tkphotos/internal/storage/postgresql"
	redisapp "tkphotos/internal/storage/redis"
	httprouters "tkphotos/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Auth       *auth.Auth

	log   *slog.Logger
	repo  *repository.Repository
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	db, err := postgresql.Connect(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(db)

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("%s: redis: %w", op, err)
	}

	fileStorage, err := newFileStorage(ctx, cfg.ObjectStorage)
	if err != nil {
		repo.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenService := tokens.NewTokenService(log, repository.NewRedisTokenRepo(redisClient), cfg.Token.Secret, cfg.Token.AccessTTL, cfg.Token.RefreshTTL)
	authService := auth.New(log, repo.User, tokenService)

	galleryService := galleries.NewGalleryService(log, repo.Gallery, repo.Photo, fileStorage)
	photoService := photos.NewPhotoService(log, repo.Photo, repo.Gallery, fileStorage)
	collectionService := collections.NewCollectionService(log, repo.Collection, repo.Gallery, fileStorage)
	uploadService := uploads.NewUploadService(log, repo.Gallery, fileStorage, photoService, uploads.Limits{
		MaxFiles:    cfg.Upload.MaxFiles,
		MaxFileSize: cfg.Upload.MaxFileSize,
		Allowed:     cfg.Upload.Allowed,
	}, cfg.Upload.SessionTTL)

	metadataService := maintenance.NewMetadataService(
		log,
		repo.Photo,
		imageprobe.New(cfg.Maintenance.ProbeTimeout, cfg.Maintenance.ProbeMaxBytes),
		repository.NewRedisLocker(redisClient),
		maintenance.Config{
			BatchSize: cfg.Maintenance.BatchSize,
			LockTTL:   cfg.Maintenance.LockTTL,
		},
	)

	routers := httprouters.NewRouter(log, httprouters.Services{
		Auth:        authService,
		Galleries:   galleryService,
		Photos:      photoService,
		Collections: collectionService,
		Stats:       stats.NewStatsService(log, repo.Stats),
		Contact:     contact.NewContactService(log),
		Uploads:     uploadService,
		Maintenance: metadataService,
	})

	opts := httpapp.Options{
		Host:                 cfg.HTTP.Host,
		Port:                 cfg.HTTP.Port,
		ReadTimeout:          cfg.HTTP.ReadTimeout,
		WriteTimeout:         cfg.HTTP.WriteTimeout,
		BodyLimit:            cfg.HTTP.BodyLimit,
		AllowOrigins:         cfg.HTTP.AllowOrigins,
		TokenSecret:          cfg.Token.Secret,
		SessionSecret:        cfg.Session.Secret,
		SessionMaxAge:        cfg.Session.MaxAge,
		SessionSecure:        cfg.Session.Secure,
		ContactRatePerMinute: cfg.Contact.RatePerMinute,
		ContactBurst:         cfg.Contact.Burst,
		HealthChecks: map[string]httprouters.HealthCheck{
			"postgres": db.Ping,
			"redis":    redisClient.HealthCheck,
		},
	}
	if cfg.ObjectStorage.Driver != "minio" {
		opts.StaticDir = cfg.ObjectStorage.BaseDir
	}

	return &App{
		HTTPServer: httpapp.New(log, opts, routers),
		Auth:       authService,
		log:        log,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

func newFileStorage(ctx context.Context, cfg config.ObjectStorageConfig) (filestorage.FileStorage, error) {
	if cfg.Driver == "minio" {
		return filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:      cfg.Endpoint,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			Bucket:        cfg.Bucket,
			UseSSL:        cfg.UseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	}
	return filestorage.NewLocalFileStorage(cfg.BaseDir, cfg.BaseURL)
}

// Close releases the storage connections. The HTTP server is stopped separately.
func (a *App) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.Warn("failed to close redis", slog.String("error", err.Error()))
	}
	a.repo.Close()
}
