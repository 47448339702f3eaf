package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-service/internal/http/middleware"
	"fleet-service/internal/model"
	"fleet-service/internal/repository"
	"fleet-service/internal/service"
)

func (h *Handler) listRoutes(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter := repository.RouteFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  parsePositiveInt(c.Query("limit")),
		Offset: parsePositiveInt(c.Query("offset")),
	}
	for _, val := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, model.RouteStatus(strings.ToLower(val)))
	}
	if driverID := strings.TrimSpace(c.Query("driver_id")); driverID != "" {
		id, err := uuid.Parse(driverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid driver_id"))
			return
		}
		filter.DriverID = &id
	}

	routes, err := h.routeService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": routes}))
}

func (h *Handler) getRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route id"))
		return
	}

	route, err := h.routeService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(route))
}

func (h *Handler) createRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		RouteID       string      `json:"route_id"`
		Name          string      `json:"name" binding:"required"`
		Status        string      `json:"status"`
		EstimatedTime string      `json:"estimated_time"`
		DriverID      *uuid.UUID  `json:"driver_id"`
		VehicleID     *uuid.UUID  `json:"vehicle_id"`
		DeliveryIDs   []uuid.UUID `json:"delivery_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	route, err := h.routeService.Create(c.Request.Context(), principal, service.CreateRouteInput{
		RouteID:       req.RouteID,
		Name:          req.Name,
		Status:        model.RouteStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		EstimatedTime: req.EstimatedTime,
		DriverID:      req.DriverID,
		VehicleID:     req.VehicleID,
		DeliveryIDs:   req.DeliveryIDs,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(route))
}

func (h *Handler) updateRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route id"))
		return
	}

	var req struct {
		Name           *string    `json:"name"`
		Status         *string    `json:"status"`
		CompletedStops *int       `json:"completed_stops"`
		EstimatedTime  *string    `json:"estimated_time"`
		ActualTime     *string    `json:"actual_time"`
		DriverID       *uuid.UUID `json:"driver_id"`
		VehicleID      *uuid.UUID `json:"vehicle_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.UpdateRouteInput{
		Name:           req.Name,
		CompletedStops: req.CompletedStops,
		EstimatedTime:  req.EstimatedTime,
		ActualTime:     req.ActualTime,
		DriverID:       req.DriverID,
		VehicleID:      req.VehicleID,
	}
	if req.Status != nil {
		status := model.RouteStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	route, err := h.routeService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(route))
}

func (h *Handler) deleteRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route id"))
		return
	}

	if err := h.routeService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deleted"}))
}

func (h *Handler) transferStops(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DeliveryIDs []uuid.UUID `json:"delivery_ids" binding:"required"`
		FromRouteID uuid.UUID   `json:"from_route_id" binding:"required"`
		ToRouteID   uuid.UUID   `json:"to_route_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.routeService.TransferStops(c.Request.Context(), principal, req.DeliveryIDs, req.FromRouteID, req.ToRouteID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(result))
}
