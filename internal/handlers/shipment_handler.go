package handlers

import (
	"net/http"

	"packing_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	shipmentService services.ShipmentService
}

func NewShipmentHandler(shipmentService services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var req services.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	req.PONumber = c.Param("po")

	result, err := h.shipmentService.CreateShipment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	shipments, err := h.shipmentService.ListShipments(c.Request.Context(), c.Param("po"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, shipments)
}
