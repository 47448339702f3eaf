package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-service/internal/http/middleware"
	"fleet-service/internal/service"
)

func (h *Handler) dashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	stats, err := h.analyticsService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) listTrainingModules(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	modules, err := h.catalogService.ListTrainingModules(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": modules}))
}

func (h *Handler) createTrainingModule(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Title           string `json:"title" binding:"required"`
		Category        string `json:"category"`
		DurationMinutes int    `json:"duration_minutes"`
		Required        bool   `json:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	module, err := h.catalogService.CreateTrainingModule(c.Request.Context(), principal, service.CreateTrainingModuleInput{
		Title:           req.Title,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		Required:        req.Required,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(module))
}

func (h *Handler) listComplianceDocuments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	docs, err := h.catalogService.ListComplianceDocuments(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": docs}))
}

func (h *Handler) createComplianceDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DriverID   *uuid.UUID `json:"driver_id"`
		Name       string     `json:"name" binding:"required"`
		Type       string     `json:"type"`
		Status     string     `json:"status"`
		ExpiryDate *time.Time `json:"expiry_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	doc, err := h.catalogService.CreateComplianceDocument(c.Request.Context(), principal, service.CreateComplianceDocumentInput{
		DriverID:   req.DriverID,
		Name:       req.Name,
		Type:       req.Type,
		Status:     req.Status,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(doc))
}
