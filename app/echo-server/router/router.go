package router

import (
	"kneexEngine/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupTrackRoutes(api *echo.Group, handler *rest.TrackHandler) {
	track := api.Group("/track")

	track.POST("/route-activated", handler.RouteActivated)
	track.POST("/route-deactivated", handler.RouteDeactivated)
	track.POST("/interaction", handler.Interaction)
}

func SetupIdentityRoutes(api *echo.Group, handler *rest.IdentityHandler) {
	api.POST("/identity-changed", handler.IdentityChanged)
}

func SetupTrendingRoutes(api *echo.Group, handler *rest.TrendingHandler) {
	api.GET("/trending", handler.GetTrending)
	api.GET("/ui-config", handler.GetUIConfig)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler) {
	cart := api.Group("/cart")

	cart.GET("", handler.GetCart)
	cart.POST("/items", handler.AddItem)
	cart.PUT("/items/:productId", handler.UpdateItem)
	cart.DELETE("/items/:productId", handler.RemoveItem)
	cart.DELETE("", handler.Clear)
}
