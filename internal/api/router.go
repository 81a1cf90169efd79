package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes under /api/v1.
func RegisterRoutes(router *gin.Engine, api *API) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/parse", api.ParseHandler)
		v1.POST("/ingest", api.IngestHandler)
		v1.POST("/query", api.QueryHandler)
		v1.POST("/agent", api.AgentHandler)

		v1.GET("/namespaces", api.ListNamespacesHandler)
		v1.POST("/namespaces", api.AddNamespaceHandler)
		v1.DELETE("/namespaces/:ns", api.DeleteNamespaceHandler)

		v1.POST("/eval", api.EvalHandler)
		v1.GET("/healthz", api.HealthzHandler)
	}
}
