package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yogesh616/MediSearchServer/internal/app"
	"github.com/yogesh616/MediSearchServer/internal/handlers"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

func registerMonitoringRoutes(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	if !cfg.Monitoring.Prometheus.Enabled {
		return
	}

	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}
	r.GET(endpoint, gin.WrapH(mon.Handler()))
	r.GET("/monitoring/summary", handlers.NewHealthHandler(mon.Health()).Summary)
}
