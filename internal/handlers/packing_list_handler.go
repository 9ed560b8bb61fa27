package handlers

import (
	"fmt"
	"net/http"

	"packing_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type PackingListHandler struct {
	packingListService services.PackingListService
}

func NewPackingListHandler(packingListService services.PackingListService) *PackingListHandler {
	return &PackingListHandler{packingListService: packingListService}
}

func (h *PackingListHandler) Render(c *gin.Context) {
	result, err := h.packingListService.Render(c.Request.Context(), c.Param("po"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *PackingListHandler) Get(c *gin.Context) {
	pl, err := h.packingListService.Get(c.Request.Context(), c.Param("pl"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pl)
}

func (h *PackingListHandler) HTML(c *gin.Context) {
	html, err := h.packingListService.HTML(c.Request.Context(), c.Param("pl"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *PackingListHandler) PDF(c *gin.Context) {
	pl := c.Param("pl")
	pdf, err := h.packingListService.PDF(c.Request.Context(), pl)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, pl))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
