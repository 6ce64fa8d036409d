package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// ReceiptArchive keeps a copy of every rendered receipt
type ReceiptArchive interface {
	// Store saves a rendered receipt and returns where it was written
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves an archived receipt by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// CleanupOlderThan removes receipts older than the specified duration
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// StoreRequest contains the parameters for archiving a receipt
type StoreRequest struct {
	// RenderID identifies the render that produced the document
	RenderID uuid.UUID
	// Kind is the receipt variant
	Kind printing.ReceiptKind
	// Format selects the file extension
	Format printing.OutputFormat
	// Data is the encoded document
	Data []byte
	// CreatedAt dates the archive path; zero means now
	CreatedAt time.Time
}

// StoreResult contains the result of archiving a receipt
type StoreResult struct {
	// Path is the storage path relative to the archive root
	Path string
	// Size is the file size in bytes
	Size int64
}

func (r *StoreRequest) validate() error {
	if r == nil {
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if r.RenderID == uuid.Nil {
		return NewRenderError(ErrCodeStorageFailed, "render ID is required", nil)
	}
	if len(r.Data) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "receipt data is empty", nil)
	}
	return nil
}

// ArchivePath builds {year}/{month}/{kind}/{render_id}{ext}
func ArchivePath(req *StoreRequest) string {
	created := req.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	kind := strings.ToLower(string(req.Kind))
	if kind == "" {
		kind = "receipt"
	}
	return strings.Join([]string{
		fmt.Sprintf("%d", created.Year()),
		fmt.Sprintf("%02d", created.Month()),
		kind,
		req.RenderID.String() + req.Format.Extension(),
	}, "/")
}

// FileSystemArchiveConfig contains configuration for file system archiving
type FileSystemArchiveConfig struct {
	// BasePath is the root directory for archived receipts
	// Default: ./data/receipts
	BasePath string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemArchive stores receipts on the local file system
type FileSystemArchive struct {
	config *FileSystemArchiveConfig
	logger *zap.Logger
}

// NewFileSystemArchive creates a new file system receipt archive
func NewFileSystemArchive(config *FileSystemArchiveConfig) (*FileSystemArchive, error) {
	if config == nil {
		config = &FileSystemArchiveConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "./data/receipts"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create archive directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemArchive{
		config: config,
		logger: logger,
	}, nil
}

// Store writes a receipt under the archive root
func (s *FileSystemArchive) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	relativePath := ArchivePath(req)
	fullPath := filepath.Join(s.config.BasePath, filepath.FromSlash(relativePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(fullPath, req.Data, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write receipt file", err)
	}

	s.logger.Debug("receipt archived",
		zap.String("path", fullPath),
		zap.Int("size", len(req.Data)))

	return &StoreResult{
		Path: relativePath,
		Size: int64(len(req.Data)),
	}, nil
}

// Get opens an archived receipt by its relative path
func (s *FileSystemArchive) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewRenderError(ErrCodeNotFound, "receipt not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open receipt file", err)
	}
	return file, nil
}

// resolve maps a relative path under the archive root, rejecting escapes
func (s *FileSystemArchive) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked potentially malicious path", zap.String("path", path))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.config.BasePath, cleanPath))
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked", zap.String("path", path))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return absPath, nil
}

// CleanupOlderThan removes archived receipts older than age
func (s *FileSystemArchive) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err == nil {
			deleted++
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deleted, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("receipt archive cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

var _ ReceiptArchive = (*FileSystemArchive)(nil)
