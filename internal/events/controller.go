package events

import (
	"net/http"
	"strings"

	"boletamaster/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetAllEvents(c *gin.Context)
	GetEvent(c *gin.Context)
	GetAvailability(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	status := Status(strings.ToUpper(c.Query("status")))
	if status != "" && !status.IsValid() {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid status filter", nil, nil)
		return
	}

	list, err := ctrl.service.ListEvents(c.Request.Context(), status)
	if err != nil {
		response.RespondError(c, "Failed to list events", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", list, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, "Event not found", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event.ToResponse(), nil)
}

func (ctrl *controller) GetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	availability, err := ctrl.service.GetAvailability(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, "Failed to load availability", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability retrieved successfully", availability, nil)
}
