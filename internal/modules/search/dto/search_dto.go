package dto

const (
	MaxPage     = 10000
	MaxPageSize = 100
)

const (
	TypeArticle  = "article"
	TypeUser     = "user"
	TypeTag      = "tag"
	TypeCategory = "category"
	TypeAll      = "all"

	SortRelevance = "relevance"
	SortTime      = "time"
	SortViews     = "views"
)

// SearchRequest is accepted both as query parameters and as a JSON body.
type SearchRequest struct {
	Keyword   string `json:"keyword,omitempty" binding:"max=100"`
	Type      string `json:"type" binding:"oneof=article user tag category all"`
	Current   int    `json:"current" binding:"min=1,max=10000"`
	Size      int    `json:"size" binding:"min=1,max=100"`
	SortField string `json:"sortField" binding:"oneof=relevance time views"`
	SortOrder string `json:"sortOrder" binding:"oneof=asc desc"`
}

// ApplyDefaults sets the values used when a field is absent.
func (r *SearchRequest) ApplyDefaults() {
	r.Type = TypeAll
	r.Current = 1
	r.Size = 10
	r.SortField = SortRelevance
	r.SortOrder = "desc"
}

// Offset is the number of hits skipped before the current page.
func (r SearchRequest) Offset() int64 {
	return int64(r.Current-1) * int64(r.Size)
}

type SearchRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	RefID     uint   `json:"refId"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Views     int64  `json:"views"`
	CreatedAt int64  `json:"createdAt"`
}

type SearchResult struct {
	Records []SearchRecord `json:"records"`
	Total   int64          `json:"total"`
	Current int            `json:"current"`
	Size    int            `json:"size"`
	Pages   int64          `json:"pages"`
}
