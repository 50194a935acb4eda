package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
)

// Subscriber delivers change events for one collection.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, func() error, error)
}

// StreamHandler pushes collection change events to the client as
// Server-Sent Events.
type StreamHandler struct {
	sub       Subscriber
	keepAlive time.Duration
}

func NewStreamHandler(sub Subscriber) *StreamHandler {
	return &StreamHandler{sub: sub, keepAlive: 15 * time.Second}
}

// Register mounts GET /events on rg.
func (h *StreamHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/events", h.stream)
}

func (h *StreamHandler) stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, closeFn, err := h.sub.Subscribe(ctx)
	if err != nil {
		_ = c.Error(err)
		Fail(c, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}
	defer func() { _ = closeFn() }()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		Fail(c, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering
	c.Status(http.StatusOK)

	fmt.Fprint(c.Writer, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Op, data)
			flusher.Flush()
		}
	}
}
