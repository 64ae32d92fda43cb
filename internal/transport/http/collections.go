package http

import (
	"log/slog"
	"net/http"

	"tkphotos/internal/transport/http/dto"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// AllCollections godoc
// @Summary All collections
// @Tags collections
// @Produce json
// @Param limit query int false "Rows, default 100, max 500"
// @Success 200 {object} response.Response{data=[]models.Collection}
// @Router /api/v1/collections [get]
func (r *Routers) AllCollections(c echo.Context) error {
	const op = "http.routers.AllCollections"

	var q dto.AllCollectionsQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	out, err := r.Collections.AllCollections(c.Request().Context(), q.Limit)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// CollectionBySlug godoc
// @Summary Collection with its galleries
// @Tags collections
// @Produce json
// @Param slug path string true "Collection slug"
// @Success 200 {object} response.Response{data=models.CollectionWithGalleries}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/collections/{slug} [get]
func (r *Routers) CollectionBySlug(c echo.Context) error {
	const op = "http.routers.CollectionBySlug"

	out, err := r.Collections.WithGalleries(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// ListCollections godoc
// @Summary List collections
// @Tags dashboard
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Rows per page, default 20, max 100"
// @Param q query string false "Search"
// @Param order_by query string false "created_at or name"
// @Param order query string false "asc or desc"
// @Success 200 {object} models.Page[models.Collection]
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections [get]
func (r *Routers) ListCollections(c echo.Context) error {
	var q dto.ListCollectionsQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	return c.JSON(http.StatusOK, r.Collections.ListCollections(c.Request().Context(), q))
}

// GetCollection godoc
// @Summary Collection by id
// @Tags dashboard
// @Produce json
// @Param id path int true "Collection id"
// @Success 200 {object} response.Response{data=models.Collection}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections/{id} [get]
func (r *Routers) GetCollection(c echo.Context) error {
	const op = "http.routers.GetCollection"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	out, err := r.Collections.GetCollection(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// CreateCollection godoc
// @Summary Create a collection
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body dto.CreateCollectionRequest true "Collection"
// @Success 201 {object} response.Response{data=models.Collection}
// @Failure 409 {object} response.ErrorResponse "Slug already in use"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections [post]
func (r *Routers) CreateCollection(c echo.Context) error {
	const op = "http.routers.CreateCollection"

	var req dto.CreateCollectionRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	out, err := r.Collections.CreateCollection(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(out))
}

// UpdateCollection godoc
// @Summary Update a collection
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path int true "Collection id"
// @Param request body dto.UpdateCollectionRequest true "Fields to change"
// @Success 200 {object} response.Response{data=models.Collection}
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections/{id} [patch]
func (r *Routers) UpdateCollection(c echo.Context) error {
	const op = "http.routers.UpdateCollection"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateCollectionRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	out, err := r.Collections.UpdateCollection(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(out))
}

// DeleteCollection godoc
// @Summary Delete a collection
// @Tags dashboard
// @Param id path int true "Collection id"
// @Success 204
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections/{id} [delete]
func (r *Routers) DeleteCollection(c echo.Context) error {
	const op = "http.routers.DeleteCollection"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Collections.DeleteCollection(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// LinkGallery godoc
// @Summary Add a gallery to a collection
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path int true "Collection id"
// @Param request body dto.LinkGalleryRequest true "Gallery"
// @Success 204
// @Failure 404 {object} response.ErrorResponse "Collection not found or Gallery not found"
// @Failure 409 {object} response.ErrorResponse "Gallery already in collection"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections/{id}/galleries [post]
func (r *Routers) LinkGallery(c echo.Context) error {
	const op = "http.routers.LinkGallery"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.LinkGalleryRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	if err := r.Collections.LinkGallery(c.Request().Context(), id, req.GalleryID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UnlinkGallery godoc
// @Summary Remove a gallery from a collection
// @Tags dashboard
// @Param id path int true "Collection id"
// @Param gallery_id path int true "Gallery id"
// @Success 204
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/collections/{id}/galleries/{gallery_id} [delete]
func (r *Routers) UnlinkGallery(c echo.Context) error {
	const op = "http.routers.UnlinkGallery"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}
	galleryID, err := paramID(c, "gallery_id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Collections.UnlinkGallery(c.Request().Context(), id, galleryID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
