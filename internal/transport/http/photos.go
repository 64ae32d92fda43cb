package http

import (
	"log/slog"
	"net/http"

	"tkphotos/internal/transport/http/dto"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// FeaturedPhotos godoc
// @Summary Featured photos
// @Tags photos
// @Produce json
// @Param limit query int false "Photos, default 12, max 48"
// @Success 200 {object} response.Response{data=[]models.Photo}
// @Router /api/v1/photos/featured [get]
func (r *Routers) FeaturedPhotos(c echo.Context) error {
	const op = "http.routers.FeaturedPhotos"

	var q dto.FeaturedPhotosQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	out, err := r.Photos.FeaturedPhotos(c.Request().Context(), q.Limit)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// ListPhotos godoc
// @Summary List photos
// @Tags dashboard
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Rows per page, default 40, max 200"
// @Param gallery_id query int false "Only this gallery"
// @Param featured_only query bool false "Only featured"
// @Param q query string false "Search in filename and caption"
// @Param order_by query string false "created_at or filename"
// @Param order query string false "asc or desc"
// @Success 200 {object} models.Page[models.Photo]
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos [get]
func (r *Routers) ListPhotos(c echo.Context) error {
	var q dto.ListPhotosQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	return c.JSON(http.StatusOK, r.Photos.ListPhotos(c.Request().Context(), q))
}

// GetPhoto godoc
// @Summary Photo by id
// @Tags dashboard
// @Produce json
// @Param id path string true "Photo id" format(uuid)
// @Success 200 {object} response.Response{data=models.Photo}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos/{id} [get]
func (r *Routers) GetPhoto(c echo.Context) error {
	const op = "http.routers.GetPhoto"

	log := r.log.With(slog.String("op", op))

	id, err := paramUUID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	p, err := r.Photos.GetPhoto(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(p))
}

// CreatePhoto godoc
// @Summary Register a photo that is already stored
// @Description storage_key is either an http(s) URL or a relative object path.
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body dto.CreatePhotoRequest true "Photo"
// @Success 201 {object} response.Response{data=models.Photo}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Gallery not found"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos [post]
func (r *Routers) CreatePhoto(c echo.Context) error {
	const op = "http.routers.CreatePhoto"

	var req dto.CreatePhotoRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	p, err := r.Photos.CreateFromRequest(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(p))
}

// DeletePhoto godoc
// @Summary Delete a photo
// @Tags dashboard
// @Param id path string true "Photo id" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos/{id} [delete]
func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	log := r.log.With(slog.String("op", op))

	id, err := paramUUID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Photos.DeletePhoto(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleFeatured godoc
// @Summary Flip the featured flag
// @Tags dashboard
// @Produce json
// @Param id path string true "Photo id" format(uuid)
// @Success 200 {object} response.Response{data=models.Photo}
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos/{id}/featured [post]
func (r *Routers) ToggleFeatured(c echo.Context) error {
	const op = "http.routers.ToggleFeatured"

	log := r.log.With(slog.String("op", op))

	id, err := paramUUID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	p, err := r.Photos.ToggleFeatured(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(p))
}

// SetCover godoc
// @Summary Use the photo as its gallery's cover
// @Tags dashboard
// @Produce json
// @Param id path string true "Photo id" format(uuid)
// @Success 200 {object} response.Response{data=models.Gallery}
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/photos/{id}/cover [post]
func (r *Routers) SetCover(c echo.Context) error {
	const op = "http.routers.SetCover"

	log := r.log.With(slog.String("op", op))

	id, err := paramUUID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	g, err := r.Photos.SetAsCover(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(g))
}
