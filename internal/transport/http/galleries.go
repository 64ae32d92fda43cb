package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/lib/slug"
	galleries "tkphotos/internal/services/gallery_service"
	"tkphotos/internal/transport/http/dto"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName     = "tk_session"
	AccessKeyHeader = "X-Access-Key"
)

// PublicGalleries godoc
// @Summary List public galleries
// @Tags galleries
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Rows per page, default 20, max 100"
// @Param q query string false "Search in title, description and slug"
// @Param order_by query string false "created_at, event_date or title"
// @Param order query string false "asc or desc"
// @Success 200 {object} models.Page[models.Gallery]
// @Router /api/v1/galleries [get]
func (r *Routers) PublicGalleries(c echo.Context) error {
	var q dto.ListGalleriesQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}
	q.PublicOnly = true

	page := r.Galleries.ListGalleries(c.Request().Context(), q)
	for i := range page.Data {
		page.Data[i] = page.Data[i].Public()
	}

	return c.JSON(http.StatusOK, page)
}

// PublicFeed godoc
// @Summary Public galleries by cursor
// @Tags galleries
// @Produce json
// @Param cursor query string false "next_cursor of the previous page"
// @Param limit query int false "Rows, default 20, max 100"
// @Success 200 {object} models.CursorPage[models.Gallery]
// @Failure 400 {object} response.ErrorResponse "Invalid cursor"
// @Router /api/v1/galleries/feed [get]
func (r *Routers) PublicFeed(c echo.Context) error {
	return r.feed(c, true)
}

// GalleryFeed godoc
// @Summary All galleries by cursor
// @Tags dashboard
// @Produce json
// @Param cursor query string false "next_cursor of the previous page"
// @Param limit query int false "Rows, default 20, max 100"
// @Success 200 {object} models.CursorPage[models.Gallery]
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries/feed [get]
func (r *Routers) GalleryFeed(c echo.Context) error {
	return r.feed(c, false)
}

func (r *Routers) feed(c echo.Context, publicOnly bool) error {
	const op = "http.routers.Feed"

	var q dto.FeedQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	page, err := r.Galleries.Feed(c.Request().Context(), publicOnly, q)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}
	if publicOnly {
		for i := range page.Data {
			page.Data[i] = page.Data[i].Public()
		}
	}

	return c.JSON(http.StatusOK, page)
}

// Homepage godoc
// @Summary Newest public galleries with a few photos each
// @Tags galleries
// @Produce json
// @Param limit query int false "Galleries, default 3, max 12"
// @Param photos_per_gallery query int false "Photos per gallery, default 1, 0 to 8"
// @Success 200 {object} response.Response{data=[]models.GalleryWithPhotos}
// @Router /api/v1/homepage [get]
func (r *Routers) Homepage(c echo.Context) error {
	const op = "http.routers.Homepage"

	q := dto.HomepageQuery{Limit: queryInt(c, "limit")}
	if raw := c.QueryParam("photos_per_gallery"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}
		q.PhotosPerGallery = &n
	}

	out, err := r.Galleries.Homepage(c.Request().Context(), q)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// GalleryBySlug godoc
// @Summary Open a gallery
// @Description Public galleries open directly. Private ones need the access key in
// @Description X-Access-Key or ?key=; a correct key is remembered in the session cookie.
// @Tags galleries
// @Produce json
// @Param slug path string true "Gallery slug"
// @Param key query string false "Access key"
// @Param limit query int false "Photos, default 100, max 500"
// @Success 200 {object} response.Response{data=models.GalleryWithPhotos}
// @Failure 403 {object} response.ErrorResponse "Access key required"
// @Failure 404 {object} response.ErrorResponse "Gallery not found"
// @Router /api/v1/galleries/{slug} [get]
func (r *Routers) GalleryBySlug(c echo.Context) error {
	const op = "http.routers.GalleryBySlug"

	slugValue := c.Param("slug")
	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", slugValue),
	)

	var q dto.GalleryPhotosQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}
	key := strings.TrimSpace(c.Request().Header.Get(AccessKeyHeader))
	if key == "" {
		key = strings.TrimSpace(q.Key)
	}

	grantKey := "gallery:" + slugValue
	sess, err := session.Get(SessionName, c)
	granted := false
	if err == nil {
		granted, _ = sess.Values[grantKey].(bool)
	}

	g, err := r.Galleries.OpenGallery(c.Request().Context(), slugValue, key, granted, q.Limit)
	if err != nil {
		return r.fail(c, log, err)
	}

	if !g.IsPublic && !granted && sess != nil {
		sess.Values[grantKey] = true
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to save session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(g))
}

// ListGalleries godoc
// @Summary List galleries
// @Tags dashboard
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Rows per page, default 20, max 100"
// @Param q query string false "Search"
// @Param public_only query bool false "Only public galleries"
// @Param order_by query string false "created_at, event_date or title"
// @Param order query string false "asc or desc"
// @Success 200 {object} models.Page[models.Gallery]
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	var q dto.ListGalleriesQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	return c.JSON(http.StatusOK, r.Galleries.ListGalleries(c.Request().Context(), q))
}

// GetGallery godoc
// @Summary Gallery by id
// @Tags dashboard
// @Produce json
// @Param id path int true "Gallery id"
// @Success 200 {object} response.Response{data=models.Gallery}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries/{id} [get]
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	g, err := r.Galleries.GetGallery(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(g))
}

// CreateGallery godoc
// @Summary Create a gallery
// @Description Slug is derived from the title and an access key generated when not given.
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body dto.CreateGalleryRequest true "Gallery"
// @Success 201 {object} response.Response{data=models.Gallery}
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 409 {object} response.ErrorResponse "Slug already in use"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries [post]
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	var req dto.CreateGalleryRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	g, err := r.Galleries.CreateGallery(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(g))
}

// UpdateGallery godoc
// @Summary Update a gallery
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path int true "Gallery id"
// @Param request body dto.UpdateGalleryRequest true "Fields to change"
// @Success 200 {object} response.Response{data=models.Gallery}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries/{id} [patch]
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateGalleryRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	g, err := r.Galleries.UpdateGallery(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(g))
}

// DeleteGallery godoc
// @Summary Delete a gallery and its photos
// @Tags dashboard
// @Param id path int true "Gallery id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries/{id} [delete]
func (r *Routers) DeleteGallery(c echo.Context) error {
	const op = "http.routers.DeleteGallery"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Galleries.DeleteGallery(c.Request().Context(), id); err != nil {
		if errors.Is(err, galleries.ErrGalleryNotFound) {
			return c.JSON(http.StatusNotFound, errorBody(err))
		}
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GenerateAccessKey godoc
// @Summary Generate an access key
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body dto.AccessKeyRequest false "Key length, default 12"
// @Success 200 {object} response.Response{data=object{access_key=string}}
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/access-keys [post]
func (r *Routers) GenerateAccessKey(c echo.Context) error {
	const op = "http.routers.GenerateAccessKey"

	var req dto.AccessKeyRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	key, err := r.Galleries.NewAccessKey(req.Length)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{"access_key": key}))
}

// PreviewSlug godoc
// @Summary Preview the slug for a text
// @Tags dashboard
// @Produce json
// @Param text query string true "Title or name"
// @Success 200 {object} response.Response{data=object{slug=string,valid=bool}}
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/slug [get]
func (r *Routers) PreviewSlug(c echo.Context) error {
	s := slug.Make(c.QueryParam("text"))

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]interface{}{
		"slug":  s,
		"valid": slug.Valid(s),
	}))
}
