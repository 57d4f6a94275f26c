package image

import (
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/RealReview/realreview-backend/internal/platform/storage"
)

// --- Service-Level Errors ---
// Handlers branch on these with errors.Is to pick the right response.

var (
	// ErrFileSave indicates the upload stream could not be persisted to disk.
	ErrFileSave = errors.New("图片文件保存失败")
	// ErrMetadataInsert indicates the file was written but its metadata row was not.
	ErrMetadataInsert = errors.New("图片元数据写入失败")
)

// CreateInput carries the optional, client-supplied fields of a new upload.
// A nil pointer means the field was absent from the form and stays NULL.
type CreateInput struct {
	UploaderName *string
	Location     *string
}

// SaveUploadedImage stores the upload stream on disk, then records its metadata.
// The two steps are not atomic: when the insert fails the file is already on
// disk, and the cleanup policy decides whether it is removed right away.
func SaveUploadedImage(db *gorm.DB, src io.Reader, originalFilename string, input CreateInput) (*Metadata, error) {
	filename, err := storage.Save(src, originalFilename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileSave, err)
	}

	record := &Metadata{
		Filename:         filename,
		OriginalFilename: originalFilename,
		UploaderName:     input.UploaderName,
		Location:         input.Location,
	}

	if err := InsertMetadata(db, record); err != nil {
		if removeOnFailure {
			if rmErr := storage.Remove(filename); rmErr != nil {
				fmt.Printf("警告: 无法清理孤立文件 %s: %v\n", filename, rmErr)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataInsert, err)
	}

	// Best-effort cache fill; the database row is already the source of truth.
	cacheMetadata(record)

	return record, nil
}

// GetMetadataByID returns a single record, or (nil, nil) when it does not exist.
// With the cache enabled the database is only consulted on a miss.
func GetMetadataByID(db *gorm.DB, id uint) (*Metadata, error) {
	if record, ok := lookupCachedMetadata(id); ok {
		return record, nil
	}

	record, err := QueryMetadataByID(db, id)
	if err != nil {
		return nil, err
	}
	if record != nil {
		cacheMetadata(record)
	}
	return record, nil
}

// ListMetadata returns one page of records in insertion order.
// Pages always come from the database; the cache only serves point lookups.
func ListMetadata(db *gorm.DB, skip, limit int) ([]Metadata, error) {
	return QueryMetadataPage(db, skip, limit)
}
