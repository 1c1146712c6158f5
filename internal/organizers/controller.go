package organizers

import (
	"net/http"

	"boletamaster/internal/inventory"
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

func currentOrganizer(ctx *gin.Context) (uuid.UUID, bool) {
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

// scope resolves the caller and the :id event, writing the error response when either is missing.
func scope(ctx *gin.Context) (organizerID, eventID uuid.UUID, ok bool) {
	if organizerID, ok = currentOrganizer(ctx); !ok {
		return
	}
	eventID, ok = pathID(ctx, "id", "event")
	return
}

func bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func fail(ctx *gin.Context, msg string, err error) {
	ctx.JSON(response.StatusFor(err), gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// GetProfile handles GET /api/v1/organizer/profile
func (c *Controller) GetProfile(ctx *gin.Context) {
	organizerID, ok := currentOrganizer(ctx)
	if !ok {
		return
	}
	organizer, err := c.service.GetOrganizer(ctx.Request.Context(), organizerID)
	if err != nil {
		fail(ctx, "Failed to get organizer", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Organizer retrieved successfully",
		"data":    organizer.Snapshot(),
	})
}

// GetEvents handles GET /api/v1/organizer/events
func (c *Controller) GetEvents(ctx *gin.Context) {
	organizerID, ok := currentOrganizer(ctx)
	if !ok {
		return
	}
	list, err := c.service.ListEvents(ctx.Request.Context(), organizerID)
	if err != nil {
		fail(ctx, "Failed to get events", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Events retrieved successfully",
		"data":    list,
	})
}

// CreateEvent handles POST /api/v1/organizer/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	organizerID, ok := currentOrganizer(ctx)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !bind(ctx, &req) {
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), organizerID, req)
	if err != nil {
		fail(ctx, "Failed to create event", err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"data":    event,
	})
}

// CancelEvent handles POST /api/v1/organizer/events/:id/cancel
func (c *Controller) CancelEvent(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}
	var req CancelEventRequest
	if ctx.Request.ContentLength > 0 && !bind(ctx, &req) {
		return
	}

	event, err := c.service.CancelEvent(ctx.Request.Context(), organizerID, eventID, req.Reason)
	if err != nil {
		fail(ctx, "Failed to cancel event", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Event cancelled successfully",
		"data":    event,
	})
}

// CreateSection handles POST /api/v1/organizer/events/:id/sections
func (c *Controller) CreateSection(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}
	var spec inventory.SectionSpec
	if !bind(ctx, &spec) {
		return
	}

	section, err := c.service.CreateSection(ctx.Request.Context(), organizerID, eventID, spec)
	if err != nil {
		fail(ctx, "Failed to create section", err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Section created successfully",
		"data":    section,
	})
}

// ModifySectionPrice handles PATCH /api/v1/organizer/events/:id/sections/:sectionId/price
func (c *Controller) ModifySectionPrice(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}
	sectionID, ok := pathID(ctx, "sectionId", "section")
	if !ok {
		return
	}
	var req ModifyPriceRequest
	if !bind(ctx, &req) {
		return
	}

	section, err := c.service.ModifySectionPrice(ctx.Request.Context(), organizerID, eventID, sectionID, req.Price)
	if err != nil {
		fail(ctx, "Failed to modify section price", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Section price updated successfully",
		"data":    section,
	})
}

// CreateDiscount handles POST /api/v1/organizer/events/:id/discounts
func (c *Controller) CreateDiscount(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}
	var req CreateDiscountRequest
	if !bind(ctx, &req) {
		return
	}

	discount, err := c.service.CreateDiscount(ctx.Request.Context(), organizerID, eventID, req)
	if err != nil {
		fail(ctx, "Failed to create discount", err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Discount created successfully",
		"data":    discount,
	})
}

// GrantCourtesy handles POST /api/v1/organizer/events/:id/courtesies
func (c *Controller) GrantCourtesy(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}
	var req CourtesyRequest
	if !bind(ctx, &req) {
		return
	}

	ticket, err := c.service.GrantCourtesy(ctx.Request.Context(), organizerID, eventID, req)
	if err != nil {
		fail(ctx, "Failed to grant courtesy ticket", err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Courtesy ticket granted successfully",
		"data":    ticket,
	})
}

// CheckIn handles POST /api/v1/organizer/tickets/:id/check-in
func (c *Controller) CheckIn(ctx *gin.Context) {
	organizerID, ok := currentOrganizer(ctx)
	if !ok {
		return
	}
	ticketID, ok := pathID(ctx, "id", "ticket")
	if !ok {
		return
	}

	ticket, err := c.service.CheckIn(ctx.Request.Context(), organizerID, ticketID)
	if err != nil {
		fail(ctx, "Failed to check in ticket", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Ticket checked in",
		"data":    ticket,
	})
}

// GenerateReport handles POST /api/v1/organizer/events/:id/reports
func (c *Controller) GenerateReport(ctx *gin.Context) {
	organizerID, eventID, ok := scope(ctx)
	if !ok {
		return
	}

	report, err := c.service.FinancialReport(ctx.Request.Context(), organizerID, eventID)
	if err != nil {
		fail(ctx, "Failed to generate financial report", err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Financial report generated successfully",
		"data":    report,
	})
}

// GetReports handles GET /api/v1/organizer/reports
func (c *Controller) GetReports(ctx *gin.Context) {
	organizerID, ok := currentOrganizer(ctx)
	if !ok {
		return
	}

	reports, err := c.service.Reports(ctx.Request.Context(), organizerID)
	if err != nil {
		fail(ctx, "Failed to get financial reports", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Financial reports retrieved successfully",
		"data":    reports,
	})
}
