package entities

import "time"

// Book is a single catalog entry: metadata plus a reference to an
// externally stored PDF object and an inline thumbnail image.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	ThumbnailBase64 string    `gorm:"column:thumbnail_base64;type:text" json:"thumbnail_base64"`
	PDFURL          string    `gorm:"column:pdf_url;size:1024" json:"pdf_url"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}
