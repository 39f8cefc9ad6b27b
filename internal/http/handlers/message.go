package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gohire/internal/app"
	"gohire/internal/common"
	"gohire/internal/http/metrics"
	"gohire/internal/http/middleware"
	"gohire/internal/http/response"
)

const streamHeartbeat = 25 * time.Second

type MessageHandler struct {
	messages  *app.MessageService
	limiter   middleware.Limiter
	collector *metrics.Collector
}

func NewMessageHandler(messages *app.MessageService, limiter middleware.Limiter, collector *metrics.Collector) *MessageHandler {
	return &MessageHandler{messages: messages, limiter: limiter, collector: collector}
}

type messageRequest struct {
	Content string `json:"content"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	contractID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "msg:" + contractID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			response.Error(w, rateLimited("messages are sent too frequently"))
			return
		}
	}
	created, err := h.messages.Send(r.Context(), contractID, userID, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	contractID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.messages.List(r.Context(), contractID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Stream serves the contract chat as server-sent events. The subscription
// is opened before the history is read, so a message sent in between shows
// up in both and clients dedupe by id.
func (h *MessageHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	contractID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, common.NewError(common.CodeInternal, "streaming unsupported", nil))
		return
	}
	ctx := r.Context()
	stream, stop, err := h.messages.Subscribe(ctx, contractID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	defer stop()
	history, err := h.messages.Reconcile(ctx, contractID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.collector != nil {
		defer h.collector.StreamOpened()()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := writeEvent(w, "history", history); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-stream:
			if !open {
				return
			}
			if err := writeEvent(w, "message", msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
