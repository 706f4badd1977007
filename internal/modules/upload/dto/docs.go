package dto

import "anoa.com/blogapi/pkg/schemadoc"

func init() {
	schemadoc.Register(schemadoc.Table{
		Shape:       "FileUploadVO",
		Direction:   "outbound",
		Description: "Result of a file upload",
		Fields: []schemadoc.FieldDoc{
			{Name: "url", Type: "string", Required: true, Description: "Public access URL", Example: "https://res.cloudinary.com/demo/image/upload/v1/blog/6f1c.png"},
			{Name: "filename", Type: "string", Required: true, Description: "Stored file name", Example: "6f1c2d9e-3b0a-4c55-9c7e-0d6f2a1b8e41.png"},
			{Name: "originalName", Type: "string", Description: "File name sent by the client", Example: "diagram.png"},
			{Name: "size", Type: "integer", Required: true, Description: "Size in bytes", Example: 20480},
			{Name: "type", Type: "string", Description: "Detected MIME type", Example: "image/png"},
		},
	})
}
