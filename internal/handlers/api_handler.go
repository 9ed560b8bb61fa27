package handlers

import (
	"log"
	"net/http"

	"packing_tracker/internal/auth"
	"packing_tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// APIHandler serves purchase orders, items and cartons.
type APIHandler struct {
	itemService    services.ItemService
	packingService services.PackingService
	cartonService  services.CartonService
	resetKeyHash   string
}

func NewAPIHandler(
	itemService services.ItemService,
	packingService services.PackingService,
	cartonService services.CartonService,
	resetKeyHash string,
) *APIHandler {
	return &APIHandler{
		itemService:    itemService,
		packingService: packingService,
		cartonService:  cartonService,
		resetKeyHash:   resetKeyHash,
	}
}

func (h *APIHandler) ListPurchaseOrders(c *gin.Context) {
	summaries, err := h.itemService.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summaries)
}

func (h *APIHandler) ImportItems(c *gin.Context) {
	var req services.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	req.PONumber = c.Param("po")

	result, err := h.itemService.Import(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *APIHandler) GetItems(c *gin.Context) {
	items, err := h.itemService.LoadItems(c.Request.Context(), c.Param("po"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, items)
}

func (h *APIHandler) MarkAllDone(c *gin.Context) {
	po := c.Param("po")
	updated, err := h.packingService.MarkAllDone(c.Request.Context(), po)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"po_number": po, "updated": updated})
}

func (h *APIHandler) GetCompletion(c *gin.Context) {
	completion, err := h.packingService.CheckCompletion(c.Request.Context(), c.Param("po"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, completion)
}

func (h *APIHandler) PackItems(c *gin.Context) {
	var req struct {
		Items      []services.PackSelection `json:"items"`
		CartonType string                   `json:"carton_type"`
		Weight     decimal.Decimal          `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request format: weight must be a number")
		return
	}

	result, err := h.packingService.PackItems(c.Request.Context(), services.PackRequest{
		PONumber:   c.Param("po"),
		Items:      req.Items,
		CartonType: req.CartonType,
		Weight:     req.Weight,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("Carton %s packed by %s", result.Barcode, operatorOf(c))
	respondCreated(c, result)
}

func (h *APIHandler) GetCartons(c *gin.Context) {
	summaries, err := h.cartonService.Summarize(c.Request.Context(), c.Param("po"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summaries)
}

// Reset wipes all packing state. Guarded by X-Reset-Key when a hash is set.
func (h *APIHandler) Reset(c *gin.Context) {
	if !auth.CheckResetKey(h.resetKeyHash, c.GetHeader("X-Reset-Key")) {
		respondFail(c, http.StatusForbidden, "invalid reset key")
		return
	}

	result, err := h.packingService.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("Packing state reset by %s", operatorOf(c))
	respondOK(c, result)
}
