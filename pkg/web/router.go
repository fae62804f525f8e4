package web

import (
	"github.com/gin-gonic/gin"
	"github.com/terrycain/station-tv-server/pkg/metrics"
)

func GetRouter(webHandler Handlers, withMetrics bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(gin.Recovery(), GinLogger())
	if withMetrics {
		router.Use(metrics.PromReqMiddleware())
	}

	router.GET("/healthz", HealthCheckEndpoint)
	router.GET("/ping", PingEndpoint)

	// Not authed, these are what the displays use
	for _, prefix := range []string{"/media", "/uploads"} {
		router.GET(prefix+"/:filename", webHandler.ServeMedia)
		router.HEAD(prefix+"/:filename", webHandler.ServeMedia)
	}
	router.GET("/metadata/tv/:tvId", webHandler.TVInfo)
	router.GET("/metadata/tv/:tvId/media", webHandler.TVMedia)
	router.GET("/tv/:tvId", webHandler.Display)

	authedGroup := router.Group("/admin")
	authedGroup.Use(webHandler.AuthRequired())
	authedGroup.GET("/stations", webHandler.ListStations)
	authedGroup.POST("/stations", webHandler.CreateStation)
	authedGroup.PUT("/stations/:id", webHandler.UpdateStation)
	authedGroup.DELETE("/stations/:id", webHandler.DeleteStation)
	authedGroup.GET("/tvs", webHandler.ListTVs)
	authedGroup.POST("/tvs", webHandler.CreateTV)
	authedGroup.PUT("/tvs/:id", webHandler.UpdateTV)
	authedGroup.DELETE("/tvs/:id", webHandler.DeleteTV)
	authedGroup.PUT("/tvs/:id/timing", webHandler.SetTiming)
	authedGroup.PUT("/tvs/:id/media", webHandler.AssignMedia)
	authedGroup.PUT("/tvs/:id/media/:mediaId/active", webHandler.SetAssignmentActive)
	authedGroup.GET("/media", webHandler.ListMedia)
	authedGroup.POST("/media", webHandler.UploadMedia)
	authedGroup.DELETE("/media/:id", webHandler.DeleteMedia)

	return router
}
