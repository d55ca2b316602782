package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jorgeferrarice/resume-ai-api/internal/services"
)

const maxChatMessageLength = 4000

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequestBody struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversationId"`
	Temperature    *float64 `json:"temperature"`
	MaxTokens      *int     `json:"maxTokens"`
}

func (b *chatRequestBody) validate() error {
	if strings.TrimSpace(b.Message) == "" {
		return errors.New("Message is required and must be a non-empty string")
	}
	if len(b.Message) > maxChatMessageLength {
		return fmt.Errorf("Message is too long (maximum %d characters)", maxChatMessageLength)
	}
	if b.ConversationID != "" && strings.TrimSpace(b.ConversationID) == "" {
		return errors.New("Conversation ID must be a valid string")
	}
	if b.Temperature != nil && (*b.Temperature < 0 || *b.Temperature > 2) {
		return errors.New("Temperature must be a number between 0 and 2")
	}
	if b.MaxTokens != nil && (*b.MaxTokens < 1 || *b.MaxTokens > 4000) {
		return errors.New("Max tokens must be a number between 1 and 4000")
	}
	return nil
}

// SendChatMessage handles POST /api/chat.
func (h *ChatHandler) SendChatMessage(c *gin.Context) {
	var body chatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := body.validate(); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	req := services.SendMessageRequest{
		Message:        strings.TrimSpace(body.Message),
		ConversationID: strings.TrimSpace(body.ConversationID),
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}
	if body.MaxTokens != nil {
		req.MaxTokens = *body.MaxTokens
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			RespondError(c, http.StatusNotFound, "Conversation not found")
			return
		}
		RespondError(c, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
		Message: "Message sent successfully",
		Usage:   result.Usage,
	})
}

// GetConversationHistory handles GET /api/chat/:conversationId.
func (h *ChatHandler) GetConversationHistory(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Param("conversationId"))
	if conversationID == "" {
		RespondError(c, http.StatusBadRequest, "Valid conversation ID is required")
		return
	}

	history, ok := h.chatService.GetConversationHistory(conversationID)
	if !ok {
		RespondError(c, http.StatusNotFound, "Conversation not found")
		return
	}
	RespondOK(c, history, "Conversation history retrieved")
}

// DeleteConversation handles DELETE /api/chat/:conversationId.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Param("conversationId"))
	if conversationID == "" {
		RespondError(c, http.StatusBadRequest, "Valid conversation ID is required")
		return
	}

	if !h.chatService.DeleteConversation(conversationID) {
		RespondError(c, http.StatusNotFound, "Conversation not found")
		return
	}
	RespondOK(c, nil, "Conversation deleted successfully")
}

// GetAllConversations handles GET /api/conversations.
func (h *ChatHandler) GetAllConversations(c *gin.Context) {
	summaries := h.chatService.ListConversations()
	RespondOK(c, summaries, fmt.Sprintf("Found %d conversations", len(summaries)))
}

type cleanupRequestBody struct {
	MaxAgeHours *int `json:"maxAgeHours"`
}

// CleanupOldConversations handles POST /api/conversations/cleanup.
func (h *ChatHandler) CleanupOldConversations(c *gin.Context) {
	maxAgeHours := 24
	var body cleanupRequestBody
	if err := c.ShouldBindJSON(&body); err == nil && body.MaxAgeHours != nil && *body.MaxAgeHours > 0 {
		maxAgeHours = *body.MaxAgeHours
	}

	deleted := h.chatService.Cleanup(maxAgeHours)
	RespondOK(c, gin.H{"deletedCount": deleted}, fmt.Sprintf("Cleaned up %d old conversations", deleted))
}
