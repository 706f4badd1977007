package server

import (
	"net/http"

	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/response"
	"anoa.com/blogapi/pkg/schemadoc"
	"github.com/gin-gonic/gin"
)

func listSchemas(registry *schemadoc.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": registry.Shapes()})
	}
}

func getSchema(registry *schemadoc.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := registry.Lookup(c.Param("shape"))
		if !ok {
			response.Error(c, apperror.NotFound("schema not found"))
			return
		}
		c.JSON(http.StatusOK, table)
	}
}
