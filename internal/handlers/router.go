package handlers

import (
	"net/http"

	"packing_tracker/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	API         *APIHandler
	Shipment    *ShipmentHandler
	PackingList *PackingListHandler
	DB          *gorm.DB
	JWTSecret   string
}

// NewRouter mounts every route under /api.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), RequestID())

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(h.DB); err != nil {
			respondFail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		respondOK(c, gin.H{"status": "ok"})
	})

	secured := api.Group("", AuthMiddleware(h.JWTSecret))
	{
		secured.POST("/packing/reset", h.API.Reset)

		secured.GET("/purchase-orders", h.API.ListPurchaseOrders)
		po := secured.Group("/purchase-orders/:po")
		{
			po.POST("/items", h.API.ImportItems)
			po.GET("/items", h.API.GetItems)
			po.POST("/items/mark-done", h.API.MarkAllDone)
			po.GET("/completion", h.API.GetCompletion)
			po.POST("/cartons", h.API.PackItems)
			po.GET("/cartons", h.API.GetCartons)
			po.POST("/shipments", h.Shipment.CreateShipment)
			po.GET("/shipments", h.Shipment.ListShipments)
			po.POST("/packing-lists", h.PackingList.Render)
		}

		secured.GET("/packing-lists/:pl", h.PackingList.Get)
		secured.GET("/packing-lists/:pl/html", h.PackingList.HTML)
		secured.GET("/packing-lists/:pl/pdf", h.PackingList.PDF)
	}

	return router
}
