package repository

import "trafficflow/internal/model"

// UploadRepository defines the interface for the uploaded video registry.
type UploadRepository interface {
	// Create operations
	Insert(upload *model.Upload) (int64, error)

	// Read operations
	GetAll() ([]model.Upload, error)

	// Delete operations
	DeleteAll() (int64, error)
}
