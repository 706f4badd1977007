package dto

import "time"

// CategoryRequest is the body of the create and update category endpoints.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=50"`
	Slug        string `json:"slug,omitempty" binding:"omitempty,max=100,slug"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"coverImage,omitempty" binding:"omitempty,url"`
	Color       string `json:"color,omitempty" binding:"omitempty,rgbhex"`
	ParentID    int64  `json:"parentId" binding:"gte=0"`
	SortOrder   int    `json:"sortOrder"`
}

type CategoryFilter struct {
	Search string `json:"search"`
}

type CategoryVO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Color       string    `json:"color,omitempty"`
	ParentID    uint      `json:"parentId"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
