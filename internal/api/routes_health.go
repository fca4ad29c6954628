package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yogesh616/MediSearchServer/internal/app"
	"github.com/yogesh616/MediSearchServer/internal/handlers"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	if !cfg.Monitoring.Health.Enabled {
		r.GET("/health", disabledHealthHandler)
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	h := handlers.NewHealthHandler(mon.Health())
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
