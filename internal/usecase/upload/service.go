// Package upload stores cover images on local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mediacat/internal/domain"
	"github.com/kailas-cloud/mediacat/internal/logger"
)

// Defaults matching the web client's upload form.
const (
	DefaultMaxBytes = 5 << 20
	RoutePrefix     = "/uploads/"
)

// DefaultAllowedTypes are the accepted cover image formats.
func DefaultAllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}

// sniffLen is how much of the body is inspected to detect the content type.
const sniffLen = 3072

// Config holds upload limits and location.
type Config struct {
	Dir           string
	MaxBytes      int64
	AllowedTypes  []string
	PublicBaseURL string
}

// Stored describes a saved upload.
type Stored struct {
	Name        string
	ContentType string
	Size        int64
}

// Service validates and stores uploaded images.
type Service struct {
	cfg Config
}

// New creates an upload service, creating the directory if needed.
func New(cfg Config) (*Service, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = DefaultAllowedTypes()
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{cfg: cfg}, nil
}

// Dir returns the directory uploads are written to.
func (s *Service) Dir() string { return s.cfg.Dir }

// MaxBytes returns the size limit.
func (s *Service) MaxBytes() int64 { return s.cfg.MaxBytes }

// Save sniffs the body, enforces the size limit and writes it as <uuid><ext>.
// originalName is only logged; the stored name never derives from client input.
func (s *Service) Save(ctx context.Context, originalName string, body io.Reader) (Stored, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Stored{}, domain.ErrEmptyUpload
	}
	if int64(n) > s.cfg.MaxBytes {
		return Stored{}, fmt.Errorf("%w: limit is %d bytes", domain.ErrPayloadTooLarge, s.cfg.MaxBytes)
	}

	mt := mimetype.Detect(head)
	if !s.allowed(mt) {
		return Stored{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	path := filepath.Join(s.cfg.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Stored{}, fmt.Errorf("create upload file: %w", err)
	}

	size, err := copyLimited(f, head, body, s.cfg.MaxBytes)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return Stored{}, err
	}

	logger.FromContext(ctx).Debug("upload stored",
		zap.String("original", originalName),
		zap.String("name", name),
		zap.String("type", mt.String()),
		zap.Int64("size", size),
	)
	return Stored{Name: name, ContentType: mt.String(), Size: size}, nil
}

// PublicURL returns the address clients fetch an upload from. The configured base
// wins over requestBase, which is derived from the incoming request.
func (s *Service) PublicURL(name, requestBase string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(requestBase, "/")
	}
	return base + RoutePrefix + url.PathEscape(name)
}

// CheckWritable verifies the upload directory accepts new files.
func (s *Service) CheckWritable(_ context.Context) error {
	f, err := os.CreateTemp(s.cfg.Dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (s *Service) allowed(mt *mimetype.MIME) bool {
	for _, t := range s.cfg.AllowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func copyLimited(dst io.Writer, head []byte, rest io.Reader, limit int64) (int64, error) {
	if _, err := dst.Write(head); err != nil {
		return 0, fmt.Errorf("write upload: %w", err)
	}
	remaining := limit - int64(len(head))
	n, err := io.Copy(dst, io.LimitReader(rest, remaining+1))
	if err != nil {
		return 0, fmt.Errorf("write upload: %w", err)
	}
	if n > remaining {
		return 0, fmt.Errorf("%w: limit is %d bytes", domain.ErrPayloadTooLarge, limit)
	}
	return int64(len(head)) + n, nil
}
