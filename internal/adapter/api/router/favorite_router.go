package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

func SetupFavoriteRouter(v1 *echo.Group, favoriteHandler *handler.FavoriteHandler, auth echo.MiddlewareFunc) {
	favorites := v1.Group("/favorites", auth)

	favorites.GET("", favoriteHandler.List)
	favorites.GET("/count", favoriteHandler.Count)
	favorites.GET("/:storeId", favoriteHandler.Status)
	favorites.PUT("/:storeId", favoriteHandler.Add)
	favorites.DELETE("/:storeId", favoriteHandler.Remove)
	favorites.POST("/:storeId/toggle", favoriteHandler.Toggle)
}
