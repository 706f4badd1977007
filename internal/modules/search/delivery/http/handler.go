package handler

import (
	"anoa.com/blogapi/internal/modules/search/dto"
	search "anoa.com/blogapi/internal/modules/search/service"
	"anoa.com/blogapi/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchService
}

func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchByQuery handles GET /search with the request in query parameters.
func (h *SearchHandler) SearchByQuery(c *gin.Context) {
	var req dto.SearchRequest
	if err := response.BindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	h.search(c, req)
}

// SearchByBody handles POST /search with a JSON body.
func (h *SearchHandler) SearchByBody(c *gin.Context) {
	var req dto.SearchRequest
	if err := response.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	h.search(c, req)
}

func (h *SearchHandler) search(c *gin.Context, req dto.SearchRequest) {
	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
