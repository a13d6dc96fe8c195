package denoise

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore stages uploaded audio in a temp directory and resolves
// download ids back to files. Ids are the bare file names of staged
// outputs; anything containing a path separator is rejected.
type FileStore struct {
	dir string
}

// NewFileStore creates the temp directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the staging directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// StageUpload writes the uploaded bytes to a per-request input file and
// reserves a matching output path. Both names share one request id so the
// output can later be served as a download.
func (s *FileStore) StageUpload(filename string, r io.Reader) (inputPath, outputPath string, err error) {
	id := uuid.NewString()
	base := filepath.Base(filename)

	inputPath = filepath.Join(s.dir, fmt.Sprintf("input_%s_%s", id, base))
	outputPath = filepath.Join(s.dir, fmt.Sprintf("output_%s_%s", id, base))

	f, err := os.Create(inputPath)
	if err != nil {
		return "", "", fmt.Errorf("stage upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(inputPath)
		return "", "", fmt.Errorf("stage upload: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("stage upload: %w", err)
	}

	return inputPath, outputPath, nil
}

// Resolve maps a download id to a staged file path.
func (s *FileStore) Resolve(fileID string) (string, error) {
	if fileID == "" || strings.ContainsAny(fileID, `/\`) || fileID != filepath.Base(fileID) {
		return "", fmt.Errorf("invalid file id: %s", fileID)
	}

	path := filepath.Join(s.dir, fileID)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file does not exist or has expired")
	}

	return path, nil
}

// Remove deletes a staged file, ignoring files already gone.
func (s *FileStore) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
