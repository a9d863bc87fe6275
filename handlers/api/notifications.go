// handlers/api/notifications.go
package api

import (
	"bufio"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"xfront/models"
	"xfront/utils"
)

// AlertHub fans freshly pushed alerts out to connected browsers so a toast
// raised by one request (a role update, a failed fetch) shows up without a
// page reload.
type AlertHub struct {
	subscribers map[string]chan models.Alert
	mu          sync.RWMutex
}

// NewAlertHub creates an empty hub.
func NewAlertHub() *AlertHub {
	return &AlertHub{
		subscribers: make(map[string]chan models.Alert),
	}
}

// Broadcast sends an alert to every subscriber. Slow subscribers are
// skipped rather than blocked on.
func (h *AlertHub) Broadcast(alert models.Alert) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subscriberID, ch := range h.subscribers {
		select {
		case ch <- alert:
		default:
			utils.Log.Warn("Alert channel full for subscriber %s", subscriberID)
		}
	}
}

func (h *AlertHub) subscribe() (string, chan models.Alert) {
	subscriberID := uuid.New().String()
	ch := make(chan models.Alert, 10)

	h.mu.Lock()
	h.subscribers[subscriberID] = ch
	h.mu.Unlock()

	return subscriberID, ch
}

func (h *AlertHub) unsubscribe(subscriberID string) {
	h.mu.Lock()
	if ch, ok := h.subscribers[subscriberID]; ok {
		delete(h.subscribers, subscriberID)
		close(ch)
	}
	h.mu.Unlock()
}

// HandleWebSocket streams alerts over a WebSocket connection.
func (h *AlertHub) HandleWebSocket(c *websocket.Conn) {
	subscriberID, ch := h.subscribe()

	defer func() {
		h.unsubscribe(subscriberID)
		c.Close()
		utils.Log.Info("WebSocket subscriber disconnected: %s", subscriberID)
	}()

	utils.Log.Info("WebSocket subscriber connected: %s", subscriberID)

	for alert := range ch {
		if err := c.WriteJSON(alert); err != nil {
			utils.Log.Error("Failed to send WebSocket alert: %v", err)
			break
		}
	}
}

// HandleSSE streams alerts as Server-Sent Events for clients without
// WebSocket support.
func (h *AlertHub) HandleSSE(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	subscriberID, ch := h.subscribe()
	utils.Log.Info("SSE subscriber connected: %s", subscriberID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.unsubscribe(subscriberID)

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case alert, ok := <-ch:
				if !ok {
					return
				}
				data, _ := json.Marshal(alert)
				w.WriteString("data: " + string(data) + "\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-ticker.C:
				w.WriteString(": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
