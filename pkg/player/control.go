package player

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/scheduler"
	"github.com/terrycain/station-tv-server/pkg/web"
)

// Controls is the part of the scheduler the local control routes drive.
type Controls interface {
	UserGesture()
	SetHidden(hidden bool)
	Next()
	State() (scheduler.State, error)
}

// Router serves the /_player control routes and hands everything else to proxy.
func Router(controls Controls, proxy http.Handler, withMetrics bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), web.GinLogger())
	if withMetrics {
		router.Use(metrics.PromReqMiddleware())
	}

	router.GET("/healthz", web.HealthCheckEndpoint)

	group := router.Group("/_player")
	group.POST("/gesture", func(c *gin.Context) {
		controls.UserGesture()
		c.Status(http.StatusNoContent)
	})
	group.POST("/visibility", func(c *gin.Context) {
		hidden, err := strconv.ParseBool(c.Query("hidden"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hidden must be true or false"})
			return
		}
		controls.SetHidden(hidden)
		c.Status(http.StatusNoContent)
	})
	group.POST("/next", func(c *gin.Context) {
		controls.Next()
		c.Status(http.StatusNoContent)
	})
	group.GET("/state", func(c *gin.Context) {
		st, err := controls.State()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st)
	})

	router.NoRoute(gin.WrapH(proxy))
	return router
}
