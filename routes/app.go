package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/meinhoongagan/bizmatch/controllers"
	"github.com/meinhoongagan/bizmatch/middleware"
	"github.com/meinhoongagan/bizmatch/storage"
	"github.com/meinhoongagan/bizmatch/utils"
)

// NewApp builds the fiber application with every route mounted under /api.
func NewApp(h *controllers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bizmatch",
		ErrorHandler: utils.ErrorHandler(h.Log.Logger),
		// multipart overhead on top of the largest accepted upload
		BodyLimit: int(h.Config.UploadMaxBytes) + 1<<20,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogging(h.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     h.Config.CORSOrigins,
		AllowCredentials: h.Config.CORSOrigins != "*",
	}))

	app.Get("/healthz", h.Health)
	if h.Config.UploadDir != "" && !h.Config.CloudinaryEnabled() {
		app.Static(storage.PublicPrefix, h.Config.UploadDir)
	}

	protected := middleware.Protected(h.Config.JWTSecret, h.Sessions, h.DB)
	api := app.Group("/api")
	SetupAuthRoutes(api, h, protected)
	SetupEventRoutes(api, h, protected)
	SetupCompanyRoutes(api, h, protected)
	SetupTimeSlotRoutes(api, h, protected)
	SetupMeetingRoutes(api, h, protected)
	SetupNotificationRoutes(api, h, protected)
	SetupAdminRoutes(api, h, protected)

	return app
}
