package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-service/internal/http/middleware"
	"fleet-service/internal/model"
	"fleet-service/internal/repository"
	"fleet-service/internal/service"
)

func (h *Handler) listVehicles(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter := repository.VehicleFilter{
		Type:   strings.TrimSpace(c.Query("type")),
		Limit:  parsePositiveInt(c.Query("limit")),
		Offset: parsePositiveInt(c.Query("offset")),
	}
	for _, val := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, model.VehicleStatus(strings.ToLower(val)))
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": vehicles}))
}

func (h *Handler) getVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vehicle id"))
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) createVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		VehicleID       string     `json:"vehicle_id"`
		Type            string     `json:"type"`
		Status          string     `json:"status"`
		Mileage         float64    `json:"mileage"`
		LastMaintenance *time.Time `json:"last_maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), principal, service.CreateVehicleInput{
		VehicleID:       req.VehicleID,
		Type:            req.Type,
		Status:          model.VehicleStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Mileage:         req.Mileage,
		LastMaintenance: req.LastMaintenance,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(vehicle))
}

func (h *Handler) updateVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vehicle id"))
		return
	}

	var req struct {
		Type            *string    `json:"type"`
		Status          *string    `json:"status"`
		Mileage         *float64   `json:"mileage"`
		LastMaintenance *time.Time `json:"last_maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.UpdateVehicleInput{
		Type:            req.Type,
		Mileage:         req.Mileage,
		LastMaintenance: req.LastMaintenance,
	}
	if req.Status != nil {
		status := model.VehicleStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vehicle id"))
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deleted"}))
}
