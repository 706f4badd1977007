package dto

import "anoa.com/blogapi/pkg/schemadoc"

func init() {
	schemadoc.Register(schemadoc.Table{
		Shape:       "TagVO",
		Direction:   "outbound",
		Description: "Tag listing item",
		Fields: []schemadoc.FieldDoc{
			{Name: "id", Type: "integer", Required: true, Description: "Tag id", Example: 1},
			{Name: "name", Type: "string", Required: true, Description: "Tag name", Example: "Golang"},
			{Name: "slug", Type: "string", Required: true, Description: "URL alias", Example: "golang"},
			{Name: "description", Type: "string", Description: "Tag description", Example: "Posts about Go"},
			{Name: "color", Type: "string", Description: "Tag colour as #RRGGBB", Example: "#00ADD8"},
			{Name: "articleCount", Type: "integer", Required: true, Description: "Number of articles using the tag", Example: 12},
			{Name: "status", Type: "integer", Required: true, Description: "0 disabled, 1 active", Example: 1},
		},
	})
	schemadoc.Register(schemadoc.Table{
		Shape:       "TagRequest",
		Direction:   "inbound",
		Description: "Create or update a tag",
		Fields: []schemadoc.FieldDoc{
			{Name: "name", Type: "string", Required: true, Description: "Tag name, 1 to 30 characters", Example: "Golang"},
			{Name: "slug", Type: "string", Description: "URL alias; derived from the name when empty", Example: "golang"},
			{Name: "description", Type: "string", Description: "Tag description, at most 255 characters", Example: "Posts about Go"},
			{Name: "color", Type: "string", Description: "Tag colour as #RRGGBB", Example: "#00ADD8"},
			{Name: "status", Type: "integer", Default: 1, Description: "0 disabled, 1 active", Example: 1},
		},
	})
}
