// handlers/account_routes.go
package handlers

import (
	"errors"
	"strconv"

	"coin-hunt-system/middleware"
	"coin-hunt-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAccountRoutes wires the projection read path and the narrow
// profile sync channel.
func SetupAccountRoutes(app *fiber.App, accountService *services.AccountService, authClient *services.AuthServiceClient) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/s/user/account", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(int64)

		account, err := accountService.GetProjection(accountID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load account",
				"cause": err.Error(),
			})
		}
		return c.JSON(account)
	})

	securedGroup.Put("/s/user/profile", func(c *fiber.Ctx) error {
		accountID := c.Locals("account_id").(int64)

		var update services.ProfileUpdate
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		account, err := accountService.UpdateProfile(accountID, update)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update profile",
				"cause": err.Error(),
			})
		}
		return c.JSON(account)
	})

	// Live projection stream; authenticated from the query string since
	// EventSource cannot send the gateway headers.
	app.Get("/s/user/account/stream", middleware.SSEAuthMiddleware(authClient), accountService.StreamAccountSSE)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/accounts/:id", func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
		}

		account, err := accountService.GetProjection(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load account",
				"cause": err.Error(),
			})
		}
		return c.JSON(account)
	})

	adminGroup.Post("/accounts/:id/reset", func(c *fiber.Ctx) error {
		userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
		}

		if err := accountService.ResetAccount(userID); err != nil {
			if errors.Is(err, services.ErrResetRestricted) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reset failed"})
		}
		return c.JSON(fiber.Map{"message": "account reset"})
	})
}
