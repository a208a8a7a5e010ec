package rest

import (
	"net/http"

	"kneexEngine/business/events"
	"kneexEngine/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	TrackHandler struct {
		validate *validator.Validate
		tracker  PageViewTracker
		events   EventRecorder
	}

	PageViewTracker interface {
		RouteActivated(path string)
		RouteDeactivated()
	}

	EventRecorder interface {
		Record(eventType string, input events.RecordInput)
	}

	RouteActivatedInput struct {
		Path string `json:"path" validate:"required"`
	}

	InteractionInput struct {
		EventType   string         `json:"event_type" validate:"required"`
		ProductID   *uint64        `json:"product_id"`
		SearchQuery *string        `json:"search_query"`
		Metadata    map[string]any `json:"metadata"`
	}
)

func NewTrackHandler(tracker PageViewTracker, events EventRecorder) *TrackHandler {
	return &TrackHandler{
		validate: validator.New(),
		tracker:  tracker,
		events:   events,
	}
}

// RouteActivated reports a route change. The page view create runs in the
// background; navigation is never blocked on analytics, so this always
// accepts.
func (h *TrackHandler) RouteActivated(c echo.Context) error {
	var request RouteActivatedInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate route activation", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.tracker.RouteActivated(request.Path)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "route activation tracked",
	})
}

// RouteDeactivated reports that the tracked surface went away.
func (h *TrackHandler) RouteDeactivated(c echo.Context) error {
	h.tracker.RouteDeactivated()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "route deactivation tracked",
	})
}

// Interaction appends one interaction event. Same contract: accepted no
// matter what happens upstream.
func (h *TrackHandler) Interaction(c echo.Context) error {
	var request InteractionInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate interaction", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.events.Record(request.EventType, events.RecordInput{
		ProductID:   request.ProductID,
		SearchQuery: request.SearchQuery,
		Metadata:    request.Metadata,
	})

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "interaction tracked",
	})
}
