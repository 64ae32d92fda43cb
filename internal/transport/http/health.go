package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tkphotos/internal/lib/logger/sl"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether a backing service answers.
type HealthCheck func(ctx context.Context) error

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary Liveness and dependency checks
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (r *Routers) Health(checks map[string]HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		const op = "http.routers.Health"

		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				r.log.Warn("health check failed", slog.String("op", op), slog.String("check", name), sl.Err(err))
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}

		return c.JSON(code, resp)
	}
}
