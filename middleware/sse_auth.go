// coin-hunt-system/middleware/sse_auth.go
package middleware

import (
	"log"
	"strconv"
	"strings"

	"coin-hunt-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates `token` and `device_id` from query params
// via the auth service. EventSource clients cannot set headers, so the
// account stream authenticates through the query string instead of the
// gateway context.
//
// Usage:
//
//	app.Get("/s/user/account/stream", middleware.SSEAuthMiddleware(authClient), accountService.StreamAccountSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("token")))
		deviceID := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("device_id")))

		if accessToken == "" || deviceID == "" {
			log.Printf("[SSEAuth] ❌ Missing query params on %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token or device_id in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken, deviceID)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for device %s: %v", deviceID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		accountID, err := strconv.ParseInt(resp.UserID, 10, 64)
		if err != nil || accountID <= 0 {
			log.Printf("[SSEAuth] ❌ Auth service returned non-numeric user id %q", resp.UserID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("account_id", accountID)
		c.Locals("device_id", resp.DeviceID)

		return c.Next()
	}
}
