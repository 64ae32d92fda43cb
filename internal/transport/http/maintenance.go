package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/services/maintenance"
	"tkphotos/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

type metadataUpdateResponse struct {
	OK bool `json:"ok"`
	maintenance.Summary
}

type messageResponse struct {
	Message string `json:"message"`
}

type failureResponse struct {
	Error string `json:"error"`
}

// UpdateMetadata godoc
// @Summary Backfill photo width and height
// @Description Probes every photo without numeric dimensions. force re-probes all photos.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateMetadataRequest false "Run options"
// @Success 200 {object} metadataUpdateResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} failureResponse "Already running"
// @Failure 500 {object} failureResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/photos/update-metadata [post]
func (r *Routers) UpdateMetadata(c echo.Context) error {
	const op = "http.routers.UpdateMetadata"

	log := r.log.With(slog.String("op", op))

	var req dto.UpdateMetadataRequest
	if c.Request().ContentLength != 0 {
		if ok, err := r.bind(c, &req); !ok {
			return err
		}
	}

	summary, err := r.Maintenance.Run(c.Request().Context(), maintenance.Options{
		Force:       req.Force,
		Concurrency: req.Concurrency,
	})
	if err != nil {
		if errors.Is(err, maintenance.ErrAlreadyRunning) {
			return c.JSON(http.StatusConflict, failureResponse{Error: "Metadata update already running"})
		}
		log.Error("metadata update failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, failureResponse{Error: "Failed to update photo metadata"})
	}

	if summary.ErrorSamples == nil {
		summary.ErrorSamples = []maintenance.ErrorSample{}
	}

	return c.JSON(http.StatusOK, metadataUpdateResponse{OK: true, Summary: summary})
}

// UpdateMetadataHint godoc
// @Summary Usage hint for the metadata backfill
// @Tags admin
// @Produce json
// @Success 200 {object} messageResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/photos/update-metadata [get]
func (r *Routers) UpdateMetadataHint(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Use POST to trigger metadata update."})
}
