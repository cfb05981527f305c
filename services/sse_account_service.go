package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"coin-hunt-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamAccountSSE streams the live account projection for the
// authenticated user. The engines touch updated_at on every mutation,
// so polling the row's cursor is enough to detect changes.
func (s *AccountService) StreamAccountSSE(c *fiber.Ctx) error {
	userID := c.Locals("account_id").(int64)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastUpdatedAt time.Time

		// Initial snapshot so the client renders immediately.
		if account, err := s.GetProjection(userID); err == nil {
			lastUpdatedAt = account.UpdatedAt
			payload, _ := json.Marshal(account)
			fmt.Fprintf(w, "event: account\ndata: %s\n\n", payload)
		} else {
			log.Printf("SSE init error for user %d: %v", userID, err)
		}
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				var account models.UserAccount
				err := s.DB.
					Where("user_id = ? AND updated_at > ?", userID, lastUpdatedAt).
					First(&account).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				if err != nil {
					log.Printf("SSE query error for user %d: %v", userID, err)
					continue
				}

				lastUpdatedAt = account.UpdatedAt
				if err := s.hydrateProjection(&account); err != nil {
					log.Printf("SSE hydrate error for user %d: %v", userID, err)
					continue
				}

				payload, _ := json.Marshal(&account)
				fmt.Fprintf(w, "event: account\ndata: %s\n\n", payload)

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
