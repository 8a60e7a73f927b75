package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamEvents pushes a "change" event after every successful mutation using Server-Sent Events.
func (h *Handler) StreamEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events, cancel := h.store.Subscribe(16)
	defer cancel()

	initialData, _ := json.Marshal(gin.H{"version": h.store.Version(), "count": h.store.Len()})
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", initialData)
	flusher.Flush()

	ctx := c.Request.Context()

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
			eventData, _ := json.Marshal(ev)
			fmt.Fprintf(c.Writer, "id: %d\nevent: change\ndata: %s\n\n", ev.Version, eventData)
			flusher.Flush()
		}
	}
}
