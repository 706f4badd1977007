package handler

import (
	"strconv"

	"anoa.com/blogapi/internal/modules/tag/dto"
	tag "anoa.com/blogapi/internal/modules/tag/service"
	"anoa.com/blogapi/pkg/apperror"
	"anoa.com/blogapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	service tag.TagService
}

func NewTagHandler(service tag.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	var filter dto.TagFilter
	if err := response.BindQuery(c, &filter); err != nil {
		response.Error(c, err)
		return
	}

	tags, err := h.service.ListTags(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"data": tags})
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, vo)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if err := response.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, vo)
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.TagRequest
	if err := response.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.UpdateTag(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, vo)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("invalid tag id")
	}
	return uint(id), nil
}
