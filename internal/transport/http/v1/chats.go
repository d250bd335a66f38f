package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/convohq/convo/internal/domain"
)

// RenameChatRequest is the body of PATCH /api/chats/:id/title.
type RenameChatRequest struct {
	Title string `json:"title"`
}

// CreateChat creates a new empty chat.
// POST /api/chats
func (h *Handler) CreateChat(c echo.Context) error {
	chat, err := h.service.CreateChat(c.Request().Context())
	if err != nil {
		h.logger.Error("create chat failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to create chat",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, chat)
}

// GetChat returns the full chat record.
// GET /api/chats/:id
func (h *Handler) GetChat(c echo.Context) error {
	chat, err := h.service.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.chatError(c, "Failed to load chat", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       chat.ID,
		"title":    chat.Title,
		"messages": chat.Messages,
	})
}

// ListChats returns summaries of all chats, most recently updated first.
// GET /api/chats
func (h *Handler) ListChats(c echo.Context) error {
	summaries, err := h.service.ListChats(c.Request().Context())
	if err != nil {
		h.logger.Error("list chats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to list chats",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, summaries)
}

// RenameChat updates a chat's title.
// PATCH /api/chats/:id/title
func (h *Handler) RenameChat(c echo.Context) error {
	var req RenameChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}

	chat, err := h.service.RenameChat(c.Request().Context(), c.Param("id"), req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
		}
		return h.chatError(c, "Failed to update chat title", err)
	}
	return c.JSON(http.StatusOK, chat)
}

// DeleteChat removes a chat and returns the deleted record.
// DELETE /api/chats/:id
func (h *Handler) DeleteChat(c echo.Context) error {
	chat, err := h.service.DeleteChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.chatError(c, "Failed to delete chat", err)
	}
	return c.JSON(http.StatusOK, chat)
}

// chatError maps store failures to wire responses.
func (h *Handler) chatError(c echo.Context, summary string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Chat not found"})
	}
	h.logger.Error(summary, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   summary,
		"details": err.Error(),
	})
}
