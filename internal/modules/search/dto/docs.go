package dto

import "anoa.com/blogapi/pkg/schemadoc"

func init() {
	schemadoc.Register(schemadoc.Table{
		Shape:       "SearchRequest",
		Direction:   "inbound",
		Description: "Full text search over articles, users, tags and categories",
		Fields: []schemadoc.FieldDoc{
			{Name: "keyword", Type: "string", Description: "Search keyword; empty matches everything", Example: "golang"},
			{Name: "type", Type: "string", Default: TypeAll, Description: "One of article, user, tag, category, all", Example: TypeArticle},
			{Name: "current", Type: "integer", Default: 1, Description: "Page number, from 1 to 10000", Example: 1},
			{Name: "size", Type: "integer", Default: 10, Description: "Page size, from 1 to 100", Example: 10},
			{Name: "sortField", Type: "string", Default: SortRelevance, Description: "One of relevance, time, views", Example: SortTime},
			{Name: "sortOrder", Type: "string", Default: "desc", Description: "asc or desc; ignored for relevance", Example: "desc"},
		},
	})
}
