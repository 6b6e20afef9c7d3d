package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/logger"
)

// ErrFileTooLarge signals the upload exceeded the configured size cap.
var ErrFileTooLarge = errors.New("file exceeds maximum upload size")

// ErrUnsupportedFileType signals an extension outside the allow list.
var ErrUnsupportedFileType = errors.New("unsupported file type")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".pdf":  {},
}

// Store writes uploaded documents to a directory on local disk. Paths
// returned to callers are always relative to the base directory so the
// base can move between environments without rewriting DB rows.
type Store struct {
	baseDir  string
	maxBytes int64
}

// NewStore prepares the base directory and returns a disk-backed store.
func NewStore(cfg config.StorageConfig, logg *logger.Logger) (*Store, error) {
	if cfg.DocumentDir == "" {
		return nil, errors.New("storage document dir is required")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, errors.New("storage max upload size must be positive")
	}
	if err := os.MkdirAll(cfg.DocumentDir, 0o755); err != nil {
		return nil, fmt.Errorf("preparing document dir %q: %w", cfg.DocumentDir, err)
	}

	if logg != nil {
		ctx := logg.WithFields(context.Background(), map[string]any{"dir": cfg.DocumentDir})
		logg.Info(ctx, "local document store initialized")
	}

	return &Store{
		baseDir:  cfg.DocumentDir,
		maxBytes: int64(cfg.MaxUploadMB) << 20,
	}, nil
}

// Save streams the upload to disk under subdir and returns the relative
// path. The stored filename is randomized; only the extension survives
// from the original name.
func (s *Store) Save(ctx context.Context, subdir, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	cleanSub, err := s.cleanRelative(subdir)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.baseDir, cleanSub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("preparing dir %q: %w", dir, err)
	}

	relPath := filepath.Join(cleanSub, uuid.NewString()+ext)
	fullPath := filepath.Join(s.baseDir, relPath)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %q: %w", fullPath, err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return relPath, nil
}

// Open returns a reader over a previously stored document.
func (s *Store) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	clean, err := s.cleanRelative(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

// Remove deletes a stored document. Missing files are not an error so
// cleanup can be retried safely.
func (s *Store) Remove(ctx context.Context, relPath string) error {
	clean, err := s.cleanRelative(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) cleanRelative(rel string) (string, error) {
	clean := filepath.Clean("/" + rel)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	return clean, nil
}
