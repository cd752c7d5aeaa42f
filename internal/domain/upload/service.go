// internal/domain/upload/service.go
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"gorm.io/gorm"
)

// Service stores uploaded files on local disk and records their metadata
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SaveInvoiceImage validates and persists an invoice attachment. The file
// lands under the configured upload path with a UUID filename so original
// names never collide or escape the directory.
func (s *Service) SaveInvoiceImage(tx *gorm.DB, businessID, userID uint, file *multipart.FileHeader, referenceType string, referenceID uint) (*InvoiceImage, error) {
	if file == nil {
		return nil, fmt.Errorf("invoice image is required")
	}
	if file.Size > s.config.Upload.MaxSize {
		return nil, fmt.Errorf("file exceeds the maximum size of %d bytes", s.config.Upload.MaxSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !s.extensionAllowed(ext) {
		return nil, fmt.Errorf("file type '%s' is not allowed", ext)
	}

	dir := filepath.Join(s.config.Upload.LocalPath, "invoices")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	storedName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := s.writeFile(file, filepath.Join(dir, storedName)); err != nil {
		return nil, err
	}

	image := &InvoiceImage{
		BusinessID:    businessID,
		FileName:      filepath.Join("invoices", storedName),
		OriginalName:  file.Filename,
		MimeType:      file.Header.Get("Content-Type"),
		Size:          file.Size,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		UploadedBy:    userID,
	}
	if err := tx.Create(image).Error; err != nil {
		os.Remove(filepath.Join(dir, storedName))
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return image, nil
}

// GetByReference returns the attachments linked to a document
func (s *Service) GetByReference(businessID uint, referenceType string, referenceID uint) ([]InvoiceImage, error) {
	var images []InvoiceImage
	err := s.db.Where("business_id = ? AND reference_type = ? AND reference_id = ?", businessID, referenceType, referenceID).
		Order("created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve attachments: %w", err)
	}
	return images, nil
}

// FilePath resolves the on-disk path of a stored attachment
func (s *Service) FilePath(image *InvoiceImage) string {
	return filepath.Join(s.config.Upload.LocalPath, image.FileName)
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *Service) writeFile(file *multipart.FileHeader, dest string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to store upload: %w", err)
	}
	return nil
}
