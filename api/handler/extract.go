package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/menumaker/models"
	"github.com/use-agent/menumaker/scraper"
)

// Extract returns a handler for POST /api/v1/extract, which runs the
// pipeline over caller-supplied HTML without fetching anything.
func Extract(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		c.JSON(http.StatusOK, sc.Extract(&req))
	}
}
