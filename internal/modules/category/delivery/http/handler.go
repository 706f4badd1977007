package handler

import (
	"strconv"

	"anoa.com/blogapi/internal/modules/category/dto"
	category "anoa.com/blogapi/internal/modules/category/service"
	"anoa.com/blogapi/pkg/apperror"
	commonDto "anoa.com/blogapi/pkg/dto"
	"anoa.com/blogapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := response.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, commonDto.IDResponse{ID: vo.ID})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CategoryRequest
	if err := response.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, vo)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	vo, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, vo)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	var filter dto.CategoryFilter
	if err := response.BindQuery(c, &filter); err != nil {
		response.Error(c, err)
		return
	}

	categories, err := h.service.GetAllCategories(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"data": categories})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, commonDto.MessageResponse{Message: "category deleted successfully"})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("invalid category id")
	}
	return uint(id), nil
}
