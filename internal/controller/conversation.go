package controller

import (
	"cloudport-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type conversationRoutesHandler struct {
	conversationService service.Conversation
	validate            *validator.Validate
}

func newConversationRoutesHandler(outer *routeGroup, services *service.Services, v *validator.Validate) *conversationRoutesHandler {
	h := &conversationRoutesHandler{conversationService: services.Conversation, validate: v}

	outer.GET("/conversations", h.GetUserConversations)
	outer.GET("/conversations/:conversationId", h.GetConversation)
	outer.GET("/conversations/:conversationId/messages", h.GetMessages)
	outer.POST("/conversations/:conversationId/messages", h.PostMessage)
	outer.POST("/conversations/:conversationId/attachments", h.RequestAttachmentUpload)

	return h
}

// /conversations
func (h *conversationRoutesHandler) GetUserConversations(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	conversations, err := h.conversationService.GetUserConversations(c.Request().Context(), callerOf(c), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, conversations)
}

// /conversations/:conversationId
func (h *conversationRoutesHandler) GetConversation(c echo.Context) error {
	conversation, err := h.conversationService.GetConversation(c.Request().Context(), callerOf(c), c.Param("conversationId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, conversation)
}

// /conversations/:conversationId/messages
func (h *conversationRoutesHandler) GetMessages(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	messages, err := h.conversationService.GetMessages(c.Request().Context(), callerOf(c), c.Param("conversationId"), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messages)
}

type postMessageInput struct {
	Content       string `json:"content" validate:"required,max=5000"`
	AttachmentKey string `json:"attachmentKey" validate:"max=1024"`
}

// /conversations/:conversationId/messages
func (h *conversationRoutesHandler) PostMessage(c echo.Context) error {
	var input postMessageInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	message, err := h.conversationService.SendMessage(c.Request().Context(), callerOf(c), c.Param("conversationId"), input.Content, input.AttachmentKey)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, message)
}

type attachmentUploadInput struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=255"`
}

// /conversations/:conversationId/attachments
func (h *conversationRoutesHandler) RequestAttachmentUpload(c echo.Context) error {
	var input attachmentUploadInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	upload, err := h.conversationService.RequestAttachmentUpload(c.Request().Context(), callerOf(c), c.Param("conversationId"), input.FileName, input.ContentType)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, upload)
}
