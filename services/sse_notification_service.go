package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const ssePollInterval = 2 * time.Second

// StreamNotificationsSSE pushes new notifications for the authenticated user
// as server-sent events.
func (s *NotificationService) StreamNotificationsSSE(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	reqCtx := c.Context()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(ssePollInterval)
		defer ticker.Stop()

		cursor := NotificationCursor{CreatedAt: s.Now()}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				notes, err := s.ListSince(context.Background(), userID, cursor)
				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}
				if len(notes) == 0 {
					// Keepalive so dead clients are noticed on flush.
					w.WriteString(":\n\n")
				}
				for _, n := range notes {
					payload, _ := json.Marshal(n)
					fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", n.ID, payload)
				}
				if len(notes) > 0 {
					cursor = cursor.Advance(notes[len(notes)-1])
				}
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-reqCtx.Done():
				return
			}
		}
	})

	return nil
}
