package marketplace

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

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.CurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "User not authenticated",
			"details": err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

func pathID(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + label + " ID",
			"details": err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

// GetOffers handles GET /api/v1/marketplace/offers
func (c *Controller) GetOffers(ctx *gin.Context) {
	offers, err := c.service.ListActive(ctx.Request.Context())
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get offers",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Offers retrieved successfully",
		"data":    offers,
	})
}

// GetOffer handles GET /api/v1/marketplace/offers/:id
func (c *Controller) GetOffer(ctx *gin.Context) {
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}

	offer, err := c.service.GetOffer(ctx.Request.Context(), offerID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get offer",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Offer retrieved successfully",
		"data":    offer,
	})
}

// CreateOffer handles POST /api/v1/marketplace/offers
func (c *Controller) CreateOffer(ctx *gin.Context) {
	sellerID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req CreateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	offer, err := c.service.CreateOffer(ctx.Request.Context(), sellerID, req)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to publish offer",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Offer published successfully",
		"data":    offer,
	})
}

// PlaceBid handles POST /api/v1/marketplace/offers/:id/bids
func (c *Controller) PlaceBid(ctx *gin.Context) {
	bidderID, ok := currentUser(ctx)
	if !ok {
		return
	}
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}

	var req PlaceBidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	bid, err := c.service.PlaceBid(ctx.Request.Context(), offerID, bidderID, req.Amount)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to place bid",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Bid placed successfully",
		"data":    bid,
	})
}

// AcceptBid handles POST /api/v1/marketplace/offers/:id/bids/:bidId/accept
func (c *Controller) AcceptBid(ctx *gin.Context) {
	sellerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}
	bidID, ok := pathID(ctx, "bidId", "bid")
	if !ok {
		return
	}

	offer, err := c.service.AcceptBid(ctx.Request.Context(), offerID, bidID, sellerID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to accept bid",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bid accepted, tickets transferred",
		"data":    offer,
	})
}

// CancelBid handles DELETE /api/v1/marketplace/offers/:id/bids/:bidId
func (c *Controller) CancelBid(ctx *gin.Context) {
	buyerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}
	bidID, ok := pathID(ctx, "bidId", "bid")
	if !ok {
		return
	}

	if err := c.service.CancelBid(ctx.Request.Context(), offerID, bidID, buyerID); err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to cancel bid",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Bid cancelled, escrow returned"})
}

// CancelOffer handles DELETE /api/v1/marketplace/offers/:id
func (c *Controller) CancelOffer(ctx *gin.Context) {
	sellerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}

	if err := c.service.CancelOffer(ctx.Request.Context(), offerID, sellerID); err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to cancel offer",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Offer cancelled successfully"})
}

// AdminCancelOffer handles DELETE /api/v1/admin/marketplace/offers/:id
func (c *Controller) AdminCancelOffer(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)
	offerID, ok := pathID(ctx, "id", "offer")
	if !ok {
		return
	}

	if err := c.service.CancelOfferByAdmin(ctx.Request.Context(), offerID, adminID); err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to cancel offer",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Offer cancelled by administrator"})
}

// GetLog handles GET /api/v1/admin/marketplace/log?offer_id=&limit=100
func (c *Controller) GetLog(ctx *gin.Context) {
	var offerID uuid.UUID
	if raw := ctx.Query("offer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid offer ID",
				"details": err.Error(),
			})
			return
		}
		offerID = id
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	entries, err := c.service.History(ctx.Request.Context(), offerID, limit)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get marketplace log",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Marketplace log retrieved successfully",
		"data":    entries,
	})
}
