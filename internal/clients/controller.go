package clients

import (
	"context"
	"net/http"

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

func currentClient(ctx *gin.Context) (uuid.UUID, bool) {
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

// Checkout handles POST /api/v1/me/purchases
func (c *Controller) Checkout(ctx *gin.Context) {
	clientID, ok := currentClient(ctx)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	summary, err := c.service.Checkout(ctx.Request.Context(), clientID, req)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to complete purchase",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Purchase completed successfully",
		"data":    summary,
	})
}

// GetPurchases handles GET /api/v1/me/purchases
func (c *Controller) GetPurchases(ctx *gin.Context) {
	clientID, ok := currentClient(ctx)
	if !ok {
		return
	}

	history, err := c.service.PurchaseHistory(ctx.Request.Context(), clientID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get purchases",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Purchases retrieved successfully",
		"data":    history,
	})
}

// GetWallet handles GET /api/v1/me/wallet
func (c *Controller) GetWallet(ctx *gin.Context) {
	clientID, ok := currentClient(ctx)
	if !ok {
		return
	}

	wallet, err := c.service.Wallet(ctx.Request.Context(), clientID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to get wallet",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Wallet retrieved successfully",
		"data":    wallet,
	})
}

// TransferTicket handles POST /api/v1/me/tickets/:id/transfer
func (c *Controller) TransferTicket(ctx *gin.Context) {
	c.transfer(ctx, "ticket", c.service.TransferTicket)
}

// TransferBundle handles POST /api/v1/me/bundles/:id/transfer
func (c *Controller) TransferBundle(ctx *gin.Context) {
	c.transfer(ctx, "bundle", c.service.TransferBundle)
}

func (c *Controller) transfer(ctx *gin.Context, label string,
	fn func(context.Context, uuid.UUID, uuid.UUID, TransferRequest) (*TransferResponse, error)) {
	clientID, ok := currentClient(ctx)
	if !ok {
		return
	}
	itemID, ok := pathID(ctx, "id", label)
	if !ok {
		return
	}

	var req TransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := fn(ctx.Request.Context(), clientID, itemID, req)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to transfer " + label,
			"details": err.Error(),
		})
		return
	}

	message := "Transfer completed successfully"
	if !result.Transferred {
		message = "Transfer not authorized, nothing moved"
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// PrintTicket handles POST /api/v1/me/tickets/:id/print
func (c *Controller) PrintTicket(ctx *gin.Context) {
	clientID, ok := currentClient(ctx)
	if !ok {
		return
	}
	ticketID, ok := pathID(ctx, "id", "ticket")
	if !ok {
		return
	}

	snap, err := c.service.PrintTicket(ctx.Request.Context(), clientID, ticketID)
	if err != nil {
		ctx.JSON(response.StatusFor(err), gin.H{
			"error":   "Failed to print ticket",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Ticket printed",
		"data":    snap,
	})
}
