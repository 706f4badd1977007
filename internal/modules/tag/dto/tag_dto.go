package dto

const (
	StatusDisabled int8 = 0
	StatusActive   int8 = 1
)

// TagVO is one item of the tag listing.
type TagVO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	Description  string `json:"description,omitempty"`
	Color        string `json:"color,omitempty"`
	ArticleCount int64  `json:"articleCount" binding:"gte=0"`
	Status       int8   `json:"status" binding:"oneof=0 1"`
}

// TagRequest is the body of the create and update tag endpoints.
type TagRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=30"`
	Slug        string `json:"slug,omitempty" binding:"omitempty,max=60,slug"`
	Description string `json:"description,omitempty" binding:"max=255"`
	Color       string `json:"color,omitempty" binding:"omitempty,rgbhex"`
	Status      int8   `json:"status" binding:"oneof=0 1"`
}

func (r *TagRequest) ApplyDefaults() {
	r.Status = StatusActive
}

// TagFilter holds the query of the tag listing. Without a status only
// active tags are listed.
type TagFilter struct {
	Status  int8   `json:"status" binding:"oneof=0 1"`
	Keyword string `json:"keyword" binding:"max=30"`
}

func (f *TagFilter) ApplyDefaults() {
	f.Status = StatusActive
}
