package http

import (
	"log/slog"
	"net/http"

	"tkphotos/internal/transport/http/dto"
	"tkphotos/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// SubmitContact godoc
// @Summary Send an enquiry
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Enquiry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/v1/contact [post]
func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	var req dto.ContactRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	if _, err := r.Contact.Submit(c.Request().Context(), req); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusCreated, response.Response{
		Status:  "success",
		Message: "Thanks, your message has been received.",
	})
}
