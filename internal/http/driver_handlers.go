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

type driverPayload struct {
	DriverID      string     `json:"driver_id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	LicenseNumber string     `json:"license_number"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Status        string     `json:"status"`
	SafetyScore   *float64   `json:"safety_score"`
}

func (h *Handler) listDrivers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter := repository.DriverFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  parsePositiveInt(c.Query("limit")),
		Offset: parsePositiveInt(c.Query("offset")),
	}
	for _, val := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, model.DriverStatus(strings.ToLower(val)))
	}
	if hasAccount := strings.TrimSpace(c.Query("has_account")); hasAccount != "" {
		value := hasAccount == "true"
		filter.HasAccount = &value
	}

	drivers, err := h.driverService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": drivers}))
}

func (h *Handler) getDriver(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	driver, err := h.driverService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(driver))
}

func (h *Handler) createDriver(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req driverPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	driver, err := h.driverService.Create(c.Request.Context(), principal, service.CreateDriverInput{
		DriverID:      req.DriverID,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: req.LicenseExpiry,
		Status:        model.DriverStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		SafetyScore:   req.SafetyScore,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(driver))
}

func (h *Handler) updateDriver(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	var req struct {
		Name          *string    `json:"name"`
		Phone         *string    `json:"phone"`
		Email         *string    `json:"email"`
		LicenseNumber *string    `json:"license_number"`
		LicenseExpiry *time.Time `json:"license_expiry"`
		Status        *string    `json:"status"`
		SafetyScore   *float64   `json:"safety_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.UpdateDriverInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: req.LicenseExpiry,
		SafetyScore:   req.SafetyScore,
	}
	if req.Status != nil {
		status := model.DriverStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	driver, err := h.driverService.Update(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(driver))
}

func (h *Handler) deleteDriver(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	if err := h.driverService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deleted"}))
}

func (h *Handler) createDriverAccount(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	driver, err := h.driverService.CreateAccount(c.Request.Context(), principal, id, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(driver))
}
