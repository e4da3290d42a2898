package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupServiceRoutes configures the sitemap, resolve and metrics routes.
// Health routes are added by the infrastructure gin package.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	router.GET("/sitemap.xml", handler.Sitemap)
	router.HEAD("/sitemap.xml", handler.Sitemap)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	v1.GET("/resolve", handler.Resolve)
}
