package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api/v1/auth")
	{
		public.POST("/register", handler.register)
		public.POST("/login", handler.login)
		public.POST("/driver-login", handler.driverLogin)
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/drivers", handler.listDrivers)
		protected.GET("/drivers/:id", handler.getDriver)
		protected.POST("/drivers", handler.createDriver)
		protected.PUT("/drivers/:id", handler.updateDriver)
		protected.DELETE("/drivers/:id", handler.deleteDriver)
		protected.POST("/drivers/:id/create-account", handler.createDriverAccount)

		protected.GET("/vehicles", handler.listVehicles)
		protected.GET("/vehicles/:id", handler.getVehicle)
		protected.POST("/vehicles", handler.createVehicle)
		protected.PUT("/vehicles/:id", handler.updateVehicle)
		protected.DELETE("/vehicles/:id", handler.deleteVehicle)

		protected.GET("/routes", handler.listRoutes)
		protected.GET("/routes/:id", handler.getRoute)
		protected.POST("/routes", handler.createRoute)
		protected.PUT("/routes/:id", handler.updateRoute)
		protected.DELETE("/routes/:id", handler.deleteRoute)
		protected.POST("/routes/transfer-stops", handler.transferStops)

		protected.GET("/deliveries", handler.listDeliveries)
		protected.GET("/deliveries/:id", handler.getDelivery)
		protected.POST("/deliveries", handler.createDelivery)
		protected.PUT("/deliveries/:id", handler.updateDelivery)
		protected.DELETE("/deliveries/:id", handler.deleteDelivery)

		protected.POST("/import/excel", handler.importExcel)

		protected.GET("/analytics/dashboard", handler.dashboard)

		protected.GET("/training/modules", handler.listTrainingModules)
		protected.POST("/training/modules", handler.createTrainingModule)

		protected.GET("/compliance", handler.listComplianceDocuments)
		protected.POST("/compliance", handler.createComplianceDocument)
	}

	return router
}
