package dto

import "anoa.com/blogapi/pkg/schemadoc"

func init() {
	schemadoc.Register(schemadoc.Table{
		Shape:       "CategoryRequest",
		Direction:   "inbound",
		Description: "Create or update a category",
		Fields: []schemadoc.FieldDoc{
			{Name: "name", Type: "string", Required: true, Description: "Category name, 1 to 50 characters", Example: "Backend"},
			{Name: "slug", Type: "string", Description: "URL alias; derived from the name when empty", Example: "backend"},
			{Name: "description", Type: "string", Description: "Category description", Example: "Server side development"},
			{Name: "coverImage", Type: "string", Description: "Cover image URL", Example: "https://cdn.example.com/covers/backend.png"},
			{Name: "color", Type: "string", Description: "Theme colour as #RRGGBB", Example: "#1E90FF"},
			{Name: "parentId", Type: "integer", Default: 0, Description: "Parent category id, 0 for a top-level category", Example: 0},
			{Name: "sortOrder", Type: "integer", Default: 0, Description: "Sort weight, smaller comes first", Example: 1},
		},
	})
}
