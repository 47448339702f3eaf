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

func (h *Handler) listDeliveries(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter := repository.DeliveryFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Unassigned: strings.TrimSpace(c.Query("unassigned")) == "true",
		Limit:      parsePositiveInt(c.Query("limit")),
		Offset:     parsePositiveInt(c.Query("offset")),
	}
	for _, val := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, model.DeliveryStatus(strings.ToLower(val)))
	}
	if routeID := strings.TrimSpace(c.Query("route_id")); routeID != "" {
		id, err := uuid.Parse(routeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid route_id"))
			return
		}
		filter.RouteID = &id
	}

	deliveries, err := h.deliveryService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": deliveries}))
}

func (h *Handler) getDelivery(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid delivery id"))
		return
	}

	delivery, err := h.deliveryService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(delivery))
}

func (h *Handler) createDelivery(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DeliveryID          string     `json:"delivery_id"`
		Address             string     `json:"address" binding:"required"`
		CustomerName        string     `json:"customer_name"`
		CustomerPhone       string     `json:"customer_phone"`
		PackageCount        int        `json:"package_count"`
		ScheduledTime       string     `json:"scheduled_time"`
		SpecialInstructions string     `json:"special_instructions"`
		Latitude            *float64   `json:"latitude"`
		Longitude           *float64   `json:"longitude"`
		StopNumber          int        `json:"stop_number"`
		RouteID             *uuid.UUID `json:"route_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	delivery, err := h.deliveryService.Create(c.Request.Context(), principal, service.CreateDeliveryInput{
		DeliveryID:          req.DeliveryID,
		Address:             req.Address,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		PackageCount:        req.PackageCount,
		ScheduledTime:       req.ScheduledTime,
		SpecialInstructions: req.SpecialInstructions,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		StopNumber:          req.StopNumber,
		RouteID:             req.RouteID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(delivery))
}

func (h *Handler) updateDelivery(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid delivery id"))
		return
	}

	var req struct {
		Address             *string    `json:"address"`
		CustomerName        *string    `json:"customer_name"`
		CustomerPhone       *string    `json:"customer_phone"`
		PackageCount        *int       `json:"package_count"`
		ScheduledTime       *string    `json:"scheduled_time"`
		SpecialInstructions *string    `json:"special_instructions"`
		Status              *string    `json:"status"`
		Notes               *string    `json:"notes"`
		StopNumber          *int       `json:"stop_number"`
		RouteID             *uuid.UUID `json:"route_id"`
		ClearRoute          bool       `json:"clear_route"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.UpdateDeliveryInput{
		Address:             req.Address,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		PackageCount:        req.PackageCount,
		ScheduledTime:       req.ScheduledTime,
		SpecialInstructions: req.SpecialInstructions,
		Notes:               req.Notes,
		StopNumber:          req.StopNumber,
		RouteID:             req.RouteID,
		ClearRoute:          req.ClearRoute,
	}
	if req.Status != nil {
		status := model.DeliveryStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	delivery, err := h.deliveryService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(delivery))
}

func (h *Handler) deleteDelivery(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid delivery id"))
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deleted"}))
}
