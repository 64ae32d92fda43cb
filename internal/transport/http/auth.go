package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tkphotos/internal/domain/models"
	"tkphotos/internal/lib/jwt"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/services/auth"
	"tkphotos/internal/transport/http/dto/request"
	"tkphotos/internal/transport/http/dto/response"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const operatorKey = "operator"

// Login godoc
// @Summary Operator login
// @Description Checks email and password and returns an access and refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	if ok, err := r.bind(c, &req); !ok {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return err
	}

	tokens, err := r.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Refresh godoc
// @Summary Rotate tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 401 {object} response.ErrorResponse "Invalid refresh token"
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	tokens, err := r.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Info("refresh rejected", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrorResponseWithDetails("authentication_failed", "invalid refresh token"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 204
// @Router /api/v1/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	var req request.RefreshRequest
	if ok, err := r.bind(c, &req); !ok {
		return err
	}

	if err := r.Auth.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Current operator
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.Operator}
// @Security ApiKeyAuth
// @Router /api/v1/auth/me [get]
func (r *Routers) Me(c echo.Context) error {
	op, ok := OperatorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}
	return c.JSON(http.StatusOK, response.SuccessResponse(op))
}

// LoadOperator runs after the JWT middleware and builds the request's Operator.
func (r *Routers) LoadOperator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*gojwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		claims, err := jwt.ClaimsFrom(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		op, err := r.Auth.Operator(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
			}
			r.log.Error("failed to load operator", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}

		c.Set(operatorKey, op)
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		op, ok := OperatorFrom(c)
		if !ok || !op.IsAdmin {
			return c.JSON(http.StatusForbidden, response.ErrForbidden)
		}
		return next(c)
	}
}

func OperatorFrom(c echo.Context) (models.Operator, bool) {
	op, ok := c.Get(operatorKey).(models.Operator)
	return op, ok
}
