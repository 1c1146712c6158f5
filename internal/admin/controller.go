package admin

import (
	"net/http"
	"time"

	"boletamaster/internal/shared/middleware"
	"boletamaster/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	admin *Administrator
}

func NewController(admin *Administrator) *Controller {
	return &Controller{admin: admin}
}

func pathID(ctx *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + label + " ID",
			"details": err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

// GetFees handles GET /api/v1/admin/fees
func (c *Controller) GetFees(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Fee policy retrieved successfully",
		"data":    c.admin.Fees(),
	})
}

// SetIssuanceFee handles PUT /api/v1/admin/fees/issuance
func (c *Controller) SetIssuanceFee(ctx *gin.Context) {
	var req SetIssuanceFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := c.admin.SetIssuanceFee(ctx.Request.Context(), req.Fee); err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to set issuance fee",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Issuance fee updated successfully",
		"data":    c.admin.Fees(),
	})
}

// SetServiceRate handles PUT /api/v1/admin/fees/service-rates
func (c *Controller) SetServiceRate(ctx *gin.Context) {
	var req SetServiceRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := c.admin.SetServiceRate(ctx.Request.Context(), req.EventType, req.Rate); err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to set service rate",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Service rate updated successfully",
		"data":    c.admin.Fees(),
	})
}

// ApproveVenue handles POST /api/v1/admin/venues/:id/approve
func (c *Controller) ApproveVenue(ctx *gin.Context) {
	c.setApproval(ctx, true)
}

// DisapproveVenue handles POST /api/v1/admin/venues/:id/disapprove
func (c *Controller) DisapproveVenue(ctx *gin.Context) {
	c.setApproval(ctx, false)
}

func (c *Controller) setApproval(ctx *gin.Context, approved bool) {
	id, ok := pathID(ctx, "venue")
	if !ok {
		return
	}

	approve := c.admin.DisapproveVenue
	if approved {
		approve = c.admin.ApproveVenue
	}
	venue, err := approve(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to update venue approval",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Venue approval updated successfully",
		"data":    venue.Snapshot(),
	})
}

// CancelEvent handles POST /api/v1/admin/events/:id/cancel
func (c *Controller) CancelEvent(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)
	id, ok := pathID(ctx, "event")
	if !ok {
		return
	}

	event, err := c.admin.CancelEvent(ctx.Request.Context(), id, adminID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to cancel event",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event cancelled by administrator",
		"data":    event,
	})
}

// GetOfferLog handles GET /api/v1/admin/offers
func (c *Controller) GetOfferLog(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Offer log retrieved successfully",
		"data":    c.admin.OfferLog(),
	})
}

// GetDailySales handles GET /api/v1/admin/reports/daily-sales?day=2026-03-14
func (c *Controller) GetDailySales(ctx *gin.Context) {
	day := time.Now().UTC()
	if raw := ctx.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid day, expected YYYY-MM-DD",
				"details": err.Error(),
			})
			return
		}
		day = parsed
	}

	report, err := c.admin.DailySales(ctx.Request.Context(), day)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to build daily sales report",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Daily sales retrieved successfully",
		"data":    report,
	})
}

// GetEarnings handles GET /api/v1/admin/reports/earnings
func (c *Controller) GetEarnings(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Charge earnings retrieved successfully",
		"data":    c.admin.ChargeEarnings(ctx.Request.Context()),
	})
}

// GetOrganizerSales handles GET /api/v1/admin/reports/organizers/:id
func (c *Controller) GetOrganizerSales(ctx *gin.Context) {
	id, ok := pathID(ctx, "organizer")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Organizer sales retrieved successfully",
		"data":    c.admin.OrganizerSales(ctx.Request.Context(), id),
	})
}
