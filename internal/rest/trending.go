package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kneexEngine/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	TrendingHandler struct {
		trendingService TrendingService
		searchDebounce  time.Duration
		timeout         time.Duration
	}

	TrendingService interface {
		ComputeTrending(ctx context.Context, limit int) []domain.TrendingProduct
	}
)

func NewTrendingHandler(trendingService TrendingService, searchDebounce time.Duration) *TrendingHandler {
	return &TrendingHandler{
		trendingService: trendingService,
		searchDebounce:  searchDebounce,
		timeout:         10 * time.Second,
	}
}

// GetTrending returns the ranked trending list. Never errors: upstream
// failures already degraded to an empty or fallback list in the service.
func (h *TrendingHandler) GetTrending(c echo.Context) error {
	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products := h.trendingService.ComputeTrending(ctx, limit)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

// GetUIConfig hands the rendering layer the knobs both sides must agree
// on, like the search suggestion debounce.
func (h *TrendingHandler) GetUIConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"search_debounce_ms": h.searchDebounce.Milliseconds(),
	}))
}
