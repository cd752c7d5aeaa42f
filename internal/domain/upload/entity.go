// internal/domain/upload/entity.go
package upload

import "time"

// InvoiceImage represents a stored invoice attachment
type InvoiceImage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BusinessID    uint      `gorm:"not null;index" json:"business_id"`
	FileName      string    `gorm:"not null" json:"file_name"`
	OriginalName  string    `gorm:"not null" json:"original_name"`
	MimeType      string    `json:"mime_type"`
	Size          int64     `json:"size"`
	ReferenceType string    `gorm:"index:idx_invoice_images_ref" json:"reference_type"`
	ReferenceID   uint      `gorm:"index:idx_invoice_images_ref" json:"reference_id"`
	UploadedBy    uint      `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides the table name
func (InvoiceImage) TableName() string {
	return "invoice_images"
}
