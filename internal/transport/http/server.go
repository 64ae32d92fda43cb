package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/validation"
	collections "tkphotos/internal/services/collection_service"
	galleries "tkphotos/internal/services/gallery_service"
	"tkphotos/internal/services/maintenance"
	photos "tkphotos/internal/services/photo_service"
	uploads "tkphotos/internal/services/upload_service"
	"tkphotos/internal/transport/http/dto"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "tkphotos/docs"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Operator(ctx context.Context, userID uuid.UUID) (models.Operator, error)
}

type GalleryService interface {
	CreateGallery(ctx context.Context, req dto.CreateGalleryRequest) (models.Gallery, error)
	UpdateGallery(ctx context.Context, id int64, req dto.UpdateGalleryRequest) (models.Gallery, error)
	DeleteGallery(ctx context.Context, id int64) error
	GetGallery(ctx context.Context, id int64) (models.Gallery, error)
	ListGalleries(ctx context.Context, q dto.ListGalleriesQuery) models.Page[models.Gallery]
	Feed(ctx context.Context, publicOnly bool, q dto.FeedQuery) (models.CursorPage[models.Gallery], error)
	Homepage(ctx context.Context, q dto.HomepageQuery) ([]models.GalleryWithPhotos, error)
	OpenGallery(ctx context.Context, slug, key string, granted bool, limit int) (models.GalleryWithPhotos, error)
	NewAccessKey(length int) (string, error)
}

type PhotoService interface {
	CreateFromRequest(ctx context.Context, req dto.CreatePhotoRequest) (models.Photo, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
	ToggleFeatured(ctx context.Context, id uuid.UUID) (models.Photo, error)
	SetAsCover(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	GetPhoto(ctx context.Context, id uuid.UUID) (models.Photo, error)
	ListPhotos(ctx context.Context, q dto.ListPhotosQuery) models.Page[models.Photo]
	FeaturedPhotos(ctx context.Context, limit int) ([]models.Photo, error)
}

type CollectionService interface {
	CreateCollection(ctx context.Context, req dto.CreateCollectionRequest) (models.Collection, error)
	UpdateCollection(ctx context.Context, id int64, req dto.UpdateCollectionRequest) (models.Collection, error)
	DeleteCollection(ctx context.Context, id int64) error
	GetCollection(ctx context.Context, id int64) (models.Collection, error)
	ListCollections(ctx context.Context, q dto.ListCollectionsQuery) models.Page[models.Collection]
	AllCollections(ctx context.Context, limit int) ([]models.Collection, error)
	WithGalleries(ctx context.Context, slug string) (models.CollectionWithGalleries, error)
	LinkGallery(ctx context.Context, collectionID, galleryID int64) error
	UnlinkGallery(ctx context.Context, collectionID, galleryID int64) error
}

type StatsService interface {
	Dashboard(ctx context.Context, days int) models.DashboardStats
}

type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error)
}

type UploadService interface {
	Open(ctx context.Context, galleryID int64) (uploads.View, error)
	Get(id string) (uploads.View, error)
	AddFiles(ctx context.Context, id string, candidates []uploads.Candidate) (uploads.View, []uploads.Rejection, error)
	Persist(ctx context.Context, id string) (uploads.PersistReport, error)
	Cancel(id string) error
}

type MaintenanceService interface {
	Run(ctx context.Context, opts maintenance.Options) (maintenance.Summary, error)
}

// Services groups everything the handlers call into.
type Services struct {
	Auth        AuthService
	Galleries   GalleryService
	Photos      PhotoService
	Collections CollectionService
	Stats       StatsService
	Contact     ContactService
	Uploads     UploadService
	Maintenance MaintenanceService
}

type Routers struct {
	log *slog.Logger
	Services
}

func NewRouter(log *slog.Logger, services Services) *Routers {
	return &Routers{
		log:      log,
		Services: services,
	}
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validation.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var ErrInvalidID = errors.New("invalid id")

var (
	notFoundErrs = []error{
		galleries.ErrGalleryNotFound,
		photos.ErrPhotoNotFound,
		photos.ErrGalleryNotFound,
		collections.ErrCollectionNotFound,
		collections.ErrGalleryNotFound,
		collections.ErrNotLinked,
		uploads.ErrSessionNotFound,
		uploads.ErrGalleryNotFound,
	}
	conflictErrs = []error{
		galleries.ErrSlugTaken,
		collections.ErrSlugTaken,
		collections.ErrAlreadyLinked,
		uploads.ErrInvalidState,
		maintenance.ErrAlreadyRunning,
	}
	badRequestErrs = []error{
		galleries.ErrNoChanges,
		collections.ErrNoChanges,
		uploads.ErrNothingToPersist,
		ErrInvalidID,
	}
)

// bind decodes and validates req. On failure the 400 has already been written
// and ok is false.
func (r *Routers) bind(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, response.ValidationFailed(err))
	}
	return true, nil
}

// fail maps service errors onto status codes. Unknown errors are logged and
// rendered as a generic 500.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(verr))
	}

	for _, m := range statusErrs {
		if target := firstOf(err, m.errs); target != nil {
			return c.JSON(m.code, errorBody(target))
		}
	}

	log.Error("request failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

var statusErrs = []struct {
	code int
	errs []error
}{
	{http.StatusNotFound, notFoundErrs},
	{http.StatusConflict, conflictErrs},
	{http.StatusBadRequest, badRequestErrs},
	{http.StatusForbidden, []error{galleries.ErrAccessDenied}},
}

// firstOf returns the sentinel err matches so wrapped errors render without their op prefix.
func firstOf(err error, targets []error) error {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t
		}
	}
	return nil
}

// errorBody renders a sentinel as a sentence, e.g. "Gallery not found".
func errorBody(err error) response.ErrorResponse {
	msg := err.Error()
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return response.ErrorResponse{Status: "error", Error: msg}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// queryInt reads an optional integer query parameter; absent or malformed means 0.
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
