package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fleet-service/internal/auth"
	"fleet-service/internal/config"
	"fleet-service/internal/db"
	httphandler "fleet-service/internal/http"
	"fleet-service/internal/http/middleware"
	"fleet-service/internal/logger"
	"fleet-service/internal/repository"
	"fleet-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	userRepo := repository.NewUserRepository(database)
	driverRepo := repository.NewDriverRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	routeRepo := repository.NewRouteRepository(database)
	deliveryRepo := repository.NewDeliveryRepository(database)
	importRepo := repository.NewImportRepository(database)
	analyticsRepo := repository.NewAnalyticsRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)

	tokens := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(userRepo, driverRepo, tokens)
	driverService := service.NewDriverService(driverRepo, userRepo)
	vehicleService := service.NewVehicleService(vehicleRepo)
	routeService := service.NewRouteService(routeRepo, driverRepo, vehicleRepo)
	deliveryService := service.NewDeliveryService(deliveryRepo, routeRepo)
	importService := service.NewImportService(importRepo, cfg.Import.RouteCapacity)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	catalogService := service.NewCatalogService(catalogRepo)

	handler := httphandler.NewHandler(
		authService,
		driverService,
		vehicleService,
		routeService,
		deliveryService,
		importService,
		analyticsService,
		catalogService,
		log,
	)
	router := httphandler.NewRouter(handler, middleware.Auth(tokens), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleet service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
