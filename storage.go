package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/analysis_server/domain/models"
	"github.com/pivolan/analysis_server/plot"
)

// Storage keeps uploads and rendered charts on local disk, namespaced by a generated identifier.
type Storage struct {
	uploadDir string
	chartDir  string
}

func NewStorage(uploadDir, chartDir string) (*Storage, error) {
	for _, dir := range []string{uploadDir, chartDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Storage{uploadDir: uploadDir, chartDir: chartDir}, nil
}

func (s *Storage) ChartDir() string {
	return s.chartDir
}

func newFileID() string {
	return uuid.NewV4().String()
}

// validFileID rejects anything that is not a canonical uuid, so ids never escape the storage dirs.
func validFileID(id string) bool {
	u, err := uuid.FromString(id)
	return err == nil && u.String() == id
}

func (s *Storage) UploadPath(id, ext string) string {
	return filepath.Join(s.uploadDir, id+ext)
}

// SaveUpload writes the original bytes as <id><ext>.
func (s *Storage) SaveUpload(id, ext string, raw []byte) (string, error) {
	path := s.UploadPath(id, ext)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

func (s *Storage) RemoveUpload(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// ChartFile resolves a rendered chart; ext is ".png" or ".html".
func (s *Storage) ChartFile(id string, kind models.ChartKind, ext string) (string, error) {
	if !validFileID(id) {
		return "", fmt.Errorf("file id %q: %w", id, ErrArtifactNotFound)
	}
	path := filepath.Join(s.chartDir, plot.ChartFileName(id, kind, ext))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%s %s: %w", id, kind, ErrArtifactNotFound)
	}
	return path, nil
}

// RemoveOlderThan deletes uploads and charts last modified before maxAge and returns how many were removed.
func (s *Storage) RemoveOlderThan(maxAge time.Time) (int, error) {
	removed := 0
	for _, dir := range []string{s.uploadDir, s.chartDir} {
		n, err := removeOldFiles(dir, maxAge)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func removeOldFiles(dirPath string, maxAge time.Time) (int, error) {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			n, err := removeOldFiles(filePath, maxAge)
			removed += n
			if err != nil {
				return removed, err
			}
			continue
		}
		info, err := file.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
