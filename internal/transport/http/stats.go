package http

import (
	"net/http"

	"tkphotos/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// DashboardStats godoc
// @Summary Catalogue totals and daily upload counts
// @Description On a storage failure the totals are zero and error is set.
// @Tags dashboard
// @Produce json
// @Param days query int false "Histogram window, default 14, max 90"
// @Success 200 {object} models.DashboardStats
// @Security ApiKeyAuth
// @Router /api/v1/dashboard/stats [get]
func (r *Routers) DashboardStats(c echo.Context) error {
	var q dto.StatsQuery
	if ok, err := r.bind(c, &q); !ok {
		return err
	}

	return c.JSON(http.StatusOK, r.Stats.Dashboard(c.Request().Context(), q.Days))
}
