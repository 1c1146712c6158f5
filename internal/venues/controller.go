package venues

import (
	"net/http"

	"boletamaster/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateVenue handles POST /api/v1/venues
func (c *Controller) CreateVenue(ctx *gin.Context) {
	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to create venue",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Venue created successfully, pending approval",
		"data":    venue.Snapshot(),
	})
}

// ListVenues handles GET /api/v1/venues?approved=true
func (c *Controller) ListVenues(ctx *gin.Context) {
	approvedOnly := ctx.Query("approved") == "true"

	list, err := c.service.ListVenues(ctx.Request.Context(), approvedOnly)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to list venues",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Venues retrieved successfully",
		"data":    list,
	})
}

// GetVenue handles GET /api/v1/venues/:id
func (c *Controller) GetVenue(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	venue, err := c.service.GetVenue(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Venue not found",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Venue retrieved successfully",
		"data":    venue.Snapshot(),
	})
}
