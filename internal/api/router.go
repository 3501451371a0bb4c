// ABOUTME: gin router for the plant texts HTTP API
// ABOUTME: Health, metrics, personalities, users, plants, chat and care task routes
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine. gatherer may be nil to omit /metrics.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))

	router.GET("/health", h.Health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/personalities", h.ListPersonalities)

		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/plants", h.ListPlants)
		api.GET("/users/:id/care/due", h.DueCare)

		api.POST("/plants", h.CreatePlant)
		api.GET("/plants/:id", h.GetPlant)
		api.PATCH("/plants/:id", h.UpdatePlant)
		api.POST("/plants/:id/chat", h.Chat)
		api.GET("/plants/:id/turns", h.ListTurns)
		api.GET("/plants/:id/care", h.PlantCare)

		api.POST("/care/:taskID/complete", h.CompleteCare)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
