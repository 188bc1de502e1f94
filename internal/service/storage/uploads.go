package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trafficflow/internal/logger"
	"trafficflow/internal/model"
	"trafficflow/internal/repository"
)

// AllowedExtensions lists the video container extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	"mp4": true, "avi": true, "mov": true, "mkv": true,
	"flv": true, "wmv": true, "webm": true, "mp4v": true,
}

var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrUnsupportedVideo = errors.New("unsupported video format")
)

// UploadStore keeps at most one committed video on disk and mirrors it in
// the upload registry. Files being staged are never purged.
type UploadStore struct {
	dir     string
	repo    repository.UploadRepository
	logger  *logger.Logger
	mu      sync.Mutex
	staging map[string]bool
}

// NewUploadStore creates an UploadStore writing into dir.
func NewUploadStore(dir string, repo repository.UploadRepository, logger *logger.Logger) *UploadStore {
	return &UploadStore{dir: dir, repo: repo, logger: logger, staging: make(map[string]bool)}
}

// Dir returns the upload directory.
func (s *UploadStore) Dir() string {
	return s.dir
}

// SanitizeFilename strips directories and characters outside [A-Za-z0-9._-]
// and checks the extension against AllowedExtensions.
func SanitizeFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		return "", ErrInvalidFilename
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(clean), "."))
	if !AllowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVideo, ext)
	}
	return clean, nil
}

// Stage writes r to a new uniquely named file in the upload directory. The
// previous upload stays untouched until Commit. The filename must already be
// sanitized.
func (s *UploadStore) Stage(filename string, r io.Reader) (*model.Upload, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, ErrInvalidFilename
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString()[:8] + "_" + filename
	fullpath := filepath.Join(s.dir, name)

	s.mu.Lock()
	s.staging[name] = true
	s.mu.Unlock()

	f, err := os.Create(fullpath)
	if err != nil {
		s.unstage(name)
		return nil, fmt.Errorf("failed to create %s: %w", filename, err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fullpath)
		s.unstage(name)
		return nil, fmt.Errorf("failed to write %s: %w", filename, err)
	}

	s.logger.Info("Staged upload %s (%d bytes)", filename, size)
	return &model.Upload{
		Filename:   filename,
		FilePath:   fullpath,
		FileSize:   size,
		UploadedAt: time.Now(),
	}, nil
}

// Commit makes a staged upload the stored one: every other file is removed
// and the registry holds only this record. It returns the number of files
// removed.
func (s *UploadStore) Commit(upload *model.Upload) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(upload.FilePath)
	delete(s.staging, name)
	removed := s.purgeLocked(name)

	if s.repo != nil {
		if _, err := s.repo.Insert(upload); err != nil {
			s.logger.Error("Error saving upload %s to registry: %v", upload.Filename, err)
		}
	}
	s.logger.Info("Stored upload %s (%d bytes)", upload.Filename, upload.FileSize)
	return removed
}

// Discard removes a staged upload that never became the active source.
func (s *UploadStore) Discard(upload *model.Upload) {
	name := filepath.Base(upload.FilePath)
	if err := os.Remove(upload.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warning("Could not delete %s: %v", upload.FilePath, err)
	}
	s.unstage(name)
}

// Purge removes every stored upload and returns the number of files removed.
func (s *UploadStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked("")
}

// Current returns the committed upload, or nil when there is none.
func (s *UploadStore) Current() (*model.Upload, error) {
	if s.repo == nil {
		return nil, nil
	}
	uploads, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}
	return &uploads[0], nil
}

func (s *UploadStore) unstage(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staging, name)
}

// purgeLocked removes every file except keep and the ones being staged, and
// clears the registry.
func (s *UploadStore) purgeLocked(keep string) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warning("Could not list upload directory %s: %v", s.dir, err)
		}
		entries = nil
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == keep || s.staging[entry.Name()] {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warning("Could not delete %s: %v", path, err)
			continue
		}
		removed++
	}

	if s.repo != nil {
		if _, err := s.repo.DeleteAll(); err != nil {
			s.logger.Error("Error clearing upload registry: %v", err)
		}
	}

	if removed > 0 {
		s.logger.Info("Deleted %d uploaded file(s)", removed)
	}
	return removed
}
