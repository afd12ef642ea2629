// controller/refdata_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	"github.com/fayhaa-municipality/complaints-api/service"
	"github.com/fayhaa-municipality/complaints-api/util"
)

type RefDataController struct {
	refDataService service.IRefDataService
}

func NewRefDataController(refDataService service.IRefDataService) *RefDataController {
	return &RefDataController{
		refDataService: refDataService,
	}
}

// RegisterRoutes registers the API routes
func (rc *RefDataController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/areas", rc.Areas)
	r.GET("/areas/locate", rc.LocateArea)
	r.GET("/municipalities", rc.Municipalities)
	r.GET("/indicators", rc.Indicators)
	r.GET("/waste-items", rc.WasteItems)
}

// Areas endpoint
func (rc *RefDataController) Areas(c *gin.Context) {
	areas, err := rc.refDataService.Areas(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch areas", err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// LocateArea endpoint resolves coordinates to the containing area.
func (rc *RefDataController) LocateArea(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		util.RespondWithError(c, http.StatusBadRequest, "lat and lng query parameters are required", fayhaa_errors.ErrInvalidComplaintData)
		return
	}

	area, err := rc.refDataService.LocateArea(c, lat, lng)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to locate area", err)
		return
	}
	if area == nil {
		util.RespondWithError(c, http.StatusNotFound, "Coordinates are outside all known areas", fayhaa_errors.ErrInvalidComplaintData)
		return
	}

	c.JSON(http.StatusOK, area)
}

// Municipalities endpoint
func (rc *RefDataController) Municipalities(c *gin.Context) {
	municipalities, err := rc.refDataService.Municipalities(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch municipalities", err)
		return
	}
	c.JSON(http.StatusOK, municipalities)
}

// Indicators endpoint
func (rc *RefDataController) Indicators(c *gin.Context) {
	indicators, err := rc.refDataService.Indicators(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch indicators", err)
		return
	}
	c.JSON(http.StatusOK, indicators)
}

// WasteItems endpoint
func (rc *RefDataController) WasteItems(c *gin.Context) {
	items, err := rc.refDataService.WasteItems(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch waste items", err)
		return
	}
	c.JSON(http.StatusOK, items)
}
