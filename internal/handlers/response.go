package handlers

import (
	"errors"
	"log"
	"net/http"

	"packing_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation  *services.ValidationError
		notFound    *services.NotFoundError
		conflict    *services.ConflictError
		persistence *services.PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		respondFail(c, http.StatusConflict, err.Error())
	case errors.As(err, &persistence):
		log.Printf("Persistence error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondFail(c, http.StatusInternalServerError, "failed to save changes")
	default:
		log.Printf("Unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondFail(c, http.StatusInternalServerError, "internal error")
	}
}
