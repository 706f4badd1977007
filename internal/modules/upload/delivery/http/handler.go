package handler

import (
	"errors"
	"net/http"

	upload "anoa.com/blogapi/internal/modules/upload/service"
	"anoa.com/blogapi/pkg/apperror"
	commonDto "anoa.com/blogapi/pkg/dto"
	"anoa.com/blogapi/pkg/response"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for multipart headers on top of the
// file size limit.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	service  upload.UploadService
	maxBytes int64
}

func NewUploadHandler(service upload.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

func (h *UploadHandler) UploadFile(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.New(http.StatusRequestEntityTooLarge, "file is too large", apperror.ErrPayloadTooLarge))
			return
		}
		response.Error(c, apperror.InvalidInput("file is required"))
		return
	}

	// anonymous uploads are possible when auth is disabled
	userID, _ := response.GetUserID(c)

	resp, err := h.service.Upload(c.Request.Context(), userID, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, resp)
}

func (h *UploadHandler) DeleteFile(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, commonDto.MessageResponse{Message: "file deleted successfully"})
}
