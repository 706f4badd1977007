package dto

// FileUploadVO is returned after a file has been stored.
type FileUploadVO struct {
	URL          string `json:"url" binding:"required"`
	Filename     string `json:"filename" binding:"required"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size" binding:"gte=0"`
	Type         string `json:"type"`
}
