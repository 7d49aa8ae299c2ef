package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/menumaker/models"
	"github.com/use-agent/menumaker/store"
)

// GetData returns a handler for GET /api/v1/data. When nothing has been
// saved yet it responds 200 with found=false.
func GetData(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := st.Load()
		if err != nil {
			slog.Error("load data failed", "dir", st.Dir(), "error", err)
			c.JSON(http.StatusInternalServerError, models.DataResponse{
				Success: false,
				Error:   models.NewScrapeError(models.ErrCodeStorage, err.Error(), err).ToDetail(),
			})
			return
		}
		c.JSON(http.StatusOK, models.DataResponse{
			Success: true,
			Found:   data != nil,
			Data:    data,
		})
	}
}

// PutData returns a handler for PUT /api/v1/data, which replaces both
// stored documents.
func PutData(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		if err := st.Save(req.Menus, req.Items); err != nil {
			slog.Error("save data failed", "dir", st.Dir(), "error", err)
			c.JSON(http.StatusInternalServerError, models.DataResponse{
				Success: false,
				Error:   models.NewScrapeError(models.ErrCodeStorage, err.Error(), err).ToDetail(),
			})
			return
		}
		c.JSON(http.StatusOK, models.DataResponse{Success: true})
	}
}
