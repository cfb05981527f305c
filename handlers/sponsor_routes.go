// handlers/sponsor_routes.go
package handlers

import (
	"coin-hunt-system/middleware"
	"coin-hunt-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSponsorRoutes wires the sponsor campaign surface: hotspot
// discovery for players, campaign management for admins.
func SetupSponsorRoutes(app *fiber.App, sponsorService *services.SponsorService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Active branded hotspots for the map view
	securedGroup.Get("/s/hotspots", sponsorService.ListActiveHotspots)

	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/campaigns", sponsorService.CreateCampaign)
	adminGroup.Get("/campaigns", sponsorService.ListCampaigns)
	adminGroup.Get("/campaigns/:id", sponsorService.GetCampaign)
	adminGroup.Post("/campaigns/:id/creative", sponsorService.UploadCreative)
	adminGroup.Post("/campaigns/:id/hotspots", sponsorService.PlaceHotspots)
	adminGroup.Post("/campaigns/:id/activate", sponsorService.ActivateCampaign)
	adminGroup.Post("/campaigns/:id/expire", sponsorService.ExpireCampaign)
}
