package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/handlers"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/db"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	database   *db.DB
	registry   *fleet.Registry
	dispatcher *fleet.Dispatcher
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, registry *fleet.Registry, dispatcher *fleet.Dispatcher) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:     engine,
		database:   database,
		registry:   registry,
		dispatcher: dispatcher,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.database)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Admin surface, tenant-scoped
		devicesHandler := handlers.NewDevicesHandler(r.registry)
		commandsHandler := handlers.NewCommandsHandler(r.dispatcher)
		activationHandler := handlers.NewActivationHandler(r.registry)
		exportHandler := handlers.NewExportHandler(r.registry)

		admin := v1.Group("", scope.Company())
		{
			devices := admin.Group("/devices")
			{
				devices.POST("", devicesHandler.RegisterDevice)
				devices.GET("", devicesHandler.ListDevices)
				devices.GET("/stats", devicesHandler.FleetStats)
				devices.GET("/export", exportHandler.ExportRoster)
				devices.GET("/:id", devicesHandler.GetDevice)
				devices.PUT("/:id", devicesHandler.UpdateDevice)
				devices.DELETE("/:id", devicesHandler.DeactivateDevice)
				devices.PATCH("/:id/status", devicesHandler.UpdateStatus)
				devices.PATCH("/:id/lock", devicesHandler.UpdateLock)

				// Command queue
				devices.POST("/:id/command", commandsHandler.SendCommand)
				devices.GET("/:id/commands", commandsHandler.PendingCommands)
				devices.GET("/:id/command-history", commandsHandler.CommandHistory)
				devices.POST("/:id/send-notification", commandsHandler.SendNotification)
			}

			admin.POST("/activation-codes", activationHandler.GenerateCodes)
			admin.POST("/qr-payload", activationHandler.GenerateQRPayload)
		}

		// Device surface
		deviceAPI := handlers.NewDeviceAPIHandler(r.registry, r.dispatcher)
		device := v1.Group("/device")
		{
			// Bootstrap: no device identity yet
			device.POST("/activate", deviceAPI.Activate)

			authed := device.Group("", scope.Device())
			{
				authed.POST("/heartbeat", deviceAPI.Heartbeat)
				authed.GET("/commands", deviceAPI.PendingCommands)
				authed.POST("/command/:commandId/ack", deviceAPI.AckCommand)
				authed.POST("/fcm-token", deviceAPI.SetFCMToken)
				authed.POST("/check-in", deviceAPI.CheckInGate)
			}
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Engine exposes the underlying Gin engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
