package http

import (
	"io"
	"log/slog"
	"net/http"

	uploads "tkphotos/internal/services/upload_service"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const uploadField = "files"

type addFilesResponse struct {
	Session  uploads.View        `json:"session"`
	Rejected []uploads.Rejection `json:"rejected"`
}

// OpenUpload godoc
// @Summary Start an upload session for a gallery
// @Tags uploads
// @Produce json
// @Param id path int true "Gallery id"
// @Success 201 {object} response.Response{data=uploads.View}
// @Failure 404 {object} response.ErrorResponse "Gallery not found"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/galleries/{id}/uploads [post]
func (r *Routers) OpenUpload(c echo.Context) error {
	const op = "http.routers.OpenUpload"

	log := r.log.With(slog.String("op", op))

	galleryID, err := paramID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	view, err := r.Uploads.Open(c.Request().Context(), galleryID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(view))
}

// GetUpload godoc
// @Summary Upload session state
// @Tags uploads
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} response.Response{data=uploads.View}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/uploads/{id} [get]
func (r *Routers) GetUpload(c echo.Context) error {
	const op = "http.routers.GetUpload"

	view, err := r.Uploads.Get(c.Param("id"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(view))
}

// AddUploadFiles godoc
// @Summary Offer files to a session and upload the accepted ones
// @Description Files that are too large, of a disallowed type or over the session limit are returned in rejected.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session id"
// @Param files formData file true "Images"
// @Success 200 {object} response.Response{data=addFilesResponse}
// @Failure 409 {object} response.ErrorResponse "Session is not accepting files"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/uploads/{id}/files [post]
func (r *Routers) AddUploadFiles(c echo.Context) error {
	const op = "http.routers.AddUploadFiles"

	log := r.log.With(slog.String("op", op))

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	headers := form.File[uploadField]
	if len(headers) == 0 {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "No files"))
	}

	candidates := make([]uploads.Candidate, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		candidates = append(candidates, uploads.Candidate{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	view, rejected, err := r.Uploads.AddFiles(c.Request().Context(), c.Param("id"), candidates)
	if err != nil {
		return r.fail(c, log, err)
	}
	if rejected == nil {
		rejected = []uploads.Rejection{}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(addFilesResponse{
		Session:  view,
		Rejected: rejected,
	}))
}

// PersistUpload godoc
// @Summary Save the uploaded files as photos
// @Tags uploads
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} response.Response{data=uploads.PersistReport}
// @Failure 400 {object} response.ErrorResponse "Nothing to save"
// @Failure 409 {object} response.ErrorResponse "Session busy"
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/uploads/{id}/persist [post]
func (r *Routers) PersistUpload(c echo.Context) error {
	const op = "http.routers.PersistUpload"

	report, err := r.Uploads.Persist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(report))
}

// CancelUpload godoc
// @Summary Drop an upload session
// @Tags uploads
// @Param id path string true "Session id"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/uploads/{id} [delete]
func (r *Routers) CancelUpload(c echo.Context) error {
	const op = "http.routers.CancelUpload"

	if err := r.Uploads.Cancel(c.Param("id")); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
