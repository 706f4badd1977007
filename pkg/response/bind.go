package response

import (
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/validator"
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into dst through the schema decoder,
// so every violation is reported at once.
func BindJSON(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperror.InvalidInput("failed to read request body")
	}
	return validator.DecodeJSON(body, dst)
}

// BindQuery decodes the URL query into dst.
func BindQuery(c *gin.Context, dst any) error {
	return validator.DecodeValues(c.Request.URL.Query(), dst)
}
