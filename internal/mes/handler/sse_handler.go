package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/idrak-dareshani/mes-system/internal/mes/events"
)

// SSEHandler streams record-change events to the console
type SSEHandler struct {
	hub *events.Hub
}

func NewSSEHandler(hub *events.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream handles the SSE endpoint
// GET /events
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := fmt.Sprintf("%s_%d", c.ClientIP(), time.Now().UnixNano())

	client := &events.Client{
		ID:     clientID,
		Events: make(chan events.SSEEvent, 64),
	}

	h.hub.Register(client)

	// Set SSE headers
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// Send initial connection event
	c.Writer.WriteString("event: connected\ndata: {\"client_id\":\"" + clientID + "\"}\n\n")
	c.Writer.Flush()

	// Heartbeat ticker
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	// Client disconnect detection
	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			h.hub.Unregister(clientID)
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
