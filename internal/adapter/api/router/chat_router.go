package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

// SetupChatRouter sets up conversation routes, keyed by store id
func SetupChatRouter(v1 *echo.Group, chatHandler *handler.ChatHandler, auth echo.MiddlewareFunc) {
	conversations := v1.Group("/conversations", auth)

	conversations.GET("", chatHandler.ListConversations) // ?q= filters by store name
	conversations.POST("", chatHandler.StartConversation)
	conversations.GET("/unread", chatHandler.UnreadCount)
	conversations.GET("/:storeId", chatHandler.GetConversation) // Marks the conversation read
	conversations.DELETE("/:storeId", chatHandler.DeleteConversation)
	conversations.POST("/:storeId/messages", chatHandler.SendMessage)
}
