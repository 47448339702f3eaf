package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-service/internal/http/middleware"
	"fleet-service/internal/importer"
	"fleet-service/internal/service"
)

// importExcel accepts a multipart workbook upload and creates deliveries
// from its rows. Any bad row fails the whole upload.
func (h *Handler) importExcel(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("missing file upload"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("unreadable file upload"))
		return
	}
	defer file.Close()

	rows, err := importer.ParseWorkbook(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.importService.ImportDeliveries(c.Request.Context(), principal, rows, service.ImportOptions{
		OptimizeRoutes: c.PostForm("optimize_routes") == "true",
		AssignDrivers:  c.PostForm("assign_drivers") == "true",
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(result))
}
