package handler

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/middleware"
	"vira/internal/usecase"
	"vira/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	StoreID int `json:"storeId" validate:"required,min=1"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), middleware.DeviceID(c), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	unread, err := h.chatUseCase.UnreadTotal(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"unread": unread})
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.chatUseCase.GetConversation(c.Request().Context(), middleware.DeviceID(c), storeID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conversation, created, err := h.chatUseCase.StartConversation(c.Request().Context(), middleware.DeviceID(c), req.StoreID)
	if err != nil {
		return response.Error(c, err)
	}
	if created {
		return response.Created(c, conversation)
	}
	return response.Success(c, conversation)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), middleware.DeviceID(c), storeID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) DeleteConversation(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.DeleteConversation(c.Request().Context(), middleware.DeviceID(c), storeID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Conversation deleted successfully",
	})
}
