package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fleet-service/internal/service"
)

type Handler struct {
	authService      *service.AuthService
	driverService    *service.DriverService
	vehicleService   *service.VehicleService
	routeService     *service.RouteService
	deliveryService  *service.DeliveryService
	importService    *service.ImportService
	analyticsService *service.AnalyticsService
	catalogService   *service.CatalogService
	log              zerolog.Logger
}

func NewHandler(
	authService *service.AuthService,
	driverService *service.DriverService,
	vehicleService *service.VehicleService,
	routeService *service.RouteService,
	deliveryService *service.DeliveryService,
	importService *service.ImportService,
	analyticsService *service.AnalyticsService,
	catalogService *service.CatalogService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authService:      authService,
		driverService:    driverService,
		vehicleService:   vehicleService,
		routeService:     routeService,
		deliveryService:  deliveryService,
		importService:    importService,
		analyticsService: analyticsService,
		catalogService:   catalogService,
		log:              log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrDriverProfileMissing):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrDuplicateKey),
		errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrHasActiveWork):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param("id")))
}

func parsePositiveInt(value string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return 0
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
