package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, auth *AuthMiddleware) {
	// Liveness
	app.Get("/health", handler.HealthCheck)

	api := app.Group("/api")

	authGroup := api.Group("/auth", auth.RequireAuth())
	{
		authGroup.Post("/register", handler.Register)
		authGroup.Get("/profile", handler.GetProfile)
		authGroup.Get("/farmer", handler.GetFarmerStats)
	}

	scans := api.Group("/scans", auth.RequireAuth())
	{
		scans.Post("/", handler.SubmitScan)
		scans.Get("/history", handler.GetScanHistory)
		scans.Get("/:scanId", handler.GetScan)
	}

	forecast := api.Group("/forecast", auth.RequireAuth())
	{
		forecast.Post("/", handler.SubmitForecast)
		forecast.Post("/satellite", handler.SubmitSatellite)
	}

	districts := api.Group("/districts")
	{
		districts.Get("/", handler.GetDistricts)
		districts.Get("/nearest", handler.GetNearestDistrict)
		districts.Get("/:id", handler.GetDistrict)
		districts.Get("/:id/risk", handler.GetDistrictRisk)
	}
}
