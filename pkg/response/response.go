package response

import (
	"errors"
	"net/http"

	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/validator"
	"github.com/gin-gonic/gin"
)

// GetUserID retrieves the authenticated subject from the context
func GetUserID(c *gin.Context) (string, error) {
	userID := c.GetString("user_id")
	if userID == "" {
		return "", apperror.ErrUnauthorized
	}
	return userID, nil
}

// Error writes the standardized error response. The error is attached to
// the gin context so the logging and metrics middleware can see it.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "validation failed",
			"shape":      validationErr.Shape,
			"violations": validationErr.Violations,
		})
		return
	}

	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK writes a 200 with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
