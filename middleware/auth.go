// middleware/auth.go
package middleware

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the hunter identity set by the Gateway.
// Account ids are the numeric Telegram user ids; a secured route without
// one is rejected before any handler runs.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/s/")
		if isSecured && userIDStr == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var accountID int64
		if userIDStr != "" {
			id, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil || id <= 0 {
				log.Printf("❌ [USER_CTX] Malformed X-User-ID %q on %s", userIDStr, path)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "malformed X-User-ID",
				})
			}
			accountID = id
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		// Attach to ctx for handlers
		c.Locals("account_id", accountID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// RequireAdmin gates the sponsor/ops surface on the Gateway-provided roles.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				return c.Next()
			}
		}
		log.Printf("🚫 [ADMIN] Non-admin access attempt on %s", c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
