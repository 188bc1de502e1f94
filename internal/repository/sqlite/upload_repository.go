package sqlite

import (
	"fmt"

	"trafficflow/internal/model"
)

// UploadRepository implements repository.UploadRepository for SQLite.
type UploadRepository struct {
	db *DB
}

// NewUploadRepository creates a new SQLite upload repository.
func NewUploadRepository(db *DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Insert adds a new upload record. A record with the same filename is replaced.
func (r *UploadRepository) Insert(upload *model.Upload) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT OR REPLACE INTO uploads (filename, filepath, filesize, uploaded_at)
		VALUES (?, ?, ?, ?)
	`, upload.Filename, upload.FilePath, upload.FileSize, upload.UploadedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert upload: %w", err)
	}

	return result.LastInsertId()
}

// GetAll returns every upload, newest first.
func (r *UploadRepository) GetAll() ([]model.Upload, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, filename, filepath, filesize, uploaded_at
		FROM uploads ORDER BY uploaded_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var uploads []model.Upload
	for rows.Next() {
		var u model.Upload
		if err := rows.Scan(&u.ID, &u.Filename, &u.FilePath, &u.FileSize, &u.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteAll removes every upload record and returns how many were removed.
func (r *UploadRepository) DeleteAll() (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`DELETE FROM uploads`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete uploads: %w", err)
	}
	return result.RowsAffected()
}
