package refunds

import (
	"net/http"
	"strconv"

	"boletamaster/internal/shared/middleware"
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

// RequestTicketRefund handles POST /api/v1/refunds/tickets/:id
func (c *Controller) RequestTicketRefund(ctx *gin.Context) {
	c.request(ctx, ItemTicket)
}

// RequestBundleRefund handles POST /api/v1/refunds/bundles/:id
func (c *Controller) RequestBundleRefund(ctx *gin.Context) {
	c.request(ctx, ItemBundle)
}

func (c *Controller) request(ctx *gin.Context, kind ItemKind) {
	clientID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid item ID",
			"details": err.Error(),
		})
		return
	}

	if kind == ItemBundle {
		err = c.service.RequestBundleRefund(ctx.Request.Context(), clientID, itemID)
	} else {
		err = c.service.RequestTicketRefund(ctx.Request.Context(), clientID, itemID)
	}
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to request refund",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"message": "Refund request registered, pending administrator review",
	})
}

// GetPending handles GET /api/v1/admin/refunds
func (c *Controller) GetPending(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Pending refunds retrieved successfully",
		"data":    c.service.Pending(ctx.Request.Context()),
	})
}

// GetHistory handles GET /api/v1/admin/refunds/history?limit=50
func (c *Controller) GetHistory(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	records, err := c.service.History(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get refund history",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Refund history retrieved successfully",
		"data":    records,
	})
}

// Decide handles POST /api/v1/admin/refunds/:kind/:clientId/:decision
func (c *Controller) Decide(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	clientID, err := uuid.Parse(ctx.Param("clientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid client ID",
			"details": err.Error(),
		})
		return
	}

	var kind ItemKind
	switch ctx.Param("kind") {
	case "tickets":
		kind = ItemTicket
	case "bundles":
		kind = ItemBundle
	default:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown refund kind"})
		return
	}

	var record *RefundRecord
	switch ctx.Param("decision") {
	case "approve":
		record, err = c.service.Approve(ctx.Request.Context(), kind, clientID, adminID)
	case "reject":
		record, err = c.service.Reject(ctx.Request.Context(), kind, clientID, adminID)
	default:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown refund decision"})
		return
	}
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to resolve refund",
			"details": err.Error(),
		})
		return
	}

	if record == nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "No pending request, nothing to reject"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Refund " + record.Decision,
		"data":    record,
	})
}
