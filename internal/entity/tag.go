package entity

import "time"

const (
	TagStatusDisabled int8 = 0
	TagStatusActive   int8 = 1
)

type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:30;not null" json:"name"`
	Slug         string    `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	Description  string    `gorm:"size:255" json:"description"`
	Color        string    `gorm:"size:7" json:"color"`
	ArticleCount int64     `gorm:"not null;default:0" json:"article_count"`
	Status       int8      `gorm:"not null;index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
