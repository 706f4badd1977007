package entity

import "time"

// StoredFile records an object pushed to the configured file storage.
type StoredFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"size:100;uniqueIndex;not null" json:"filename"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Driver       string    `gorm:"size:20" json:"driver"`
	UploadedBy   string    `gorm:"size:100" json:"uploaded_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
