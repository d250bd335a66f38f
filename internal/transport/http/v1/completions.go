package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/convohq/convo/internal/domain"
)

// SendChatRequest is the body of POST /api/chat.
type SendChatRequest struct {
	Messages []domain.Message `json:"messages"`
	ID       string           `json:"id,omitempty"`
}

type deltaFrame struct {
	Text string `json:"text"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// SendChat streams an assistant reply for the given message batch and, once
// the provider completes, persists the exchange. The response is an SSE
// stream of {"text": ...} frames terminated by "data: [DONE]". A provider
// failure after streaming has begun ends the stream with an {"error": ...}
// frame and no [DONE]; nothing is persisted in that case.
// POST /api/chat
func (h *Handler) SendChat(c echo.Context) error {
	var req SendChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Messages are required"})
	}

	ctx := c.Request().Context()
	res := c.Response()

	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Streaming not supported"})
	}

	// Headers go out with the first delta so that pre-stream failures can
	// still be reported as a plain JSON status.
	streaming := false
	startStream := func() {
		if streaming {
			return
		}
		streaming = true
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("Connection", "keep-alive")
		res.WriteHeader(http.StatusOK)
	}

	result, err := h.service.StreamCompletion(ctx, req.ID, req.Messages, func(text string) error {
		startStream()
		return writeFrame(res.Writer, flusher, deltaFrame{Text: text})
	})
	if err != nil {
		if !streaming {
			if errors.Is(err, domain.ErrValidation) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			h.logger.Error("chat request failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error":   "Failed to process chat request",
				"details": err.Error(),
			})
		}
		// Mid-stream failure: the status line is gone, surface the error as
		// an SSE frame and terminate without [DONE].
		h.logger.Error("stream interrupted", zap.Error(err))
		writeFrame(res.Writer, flusher, errorFrame{Error: err.Error()})
		return nil
	}

	// An empty reply produces no deltas; open the stream so the terminator
	// has somewhere to go.
	startStream()
	fmt.Fprintf(res.Writer, "data: [DONE]\n\n")
	flusher.Flush()

	h.logger.Debug("chat stream completed",
		zap.String("chatId", result.ChatID),
		zap.Bool("created", result.Created))
	return nil
}

func writeFrame(w http.ResponseWriter, flusher http.Flusher, frame interface{}) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
