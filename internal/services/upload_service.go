package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"enscho/internal/config"
	"enscho/internal/validators"
)

var (
	ErrFilePathTraversal = errors.New("path traversal detected")
	ErrFileTooBig        = errors.New("file too large")
	ErrFileInvalidPath   = errors.New("invalid path")
	ErrNotAnImage        = errors.New("file content is not an image")
)

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

type UploadService struct {
	root      string
	urlPrefix string
	maxSize   int64
	now       func() time.Time
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{
		root:      cfg.Uploads.Path,
		urlPrefix: cfg.Uploads.URLPrefix,
		maxSize:   cfg.Limits.MaxUploadSize,
		now:       time.Now,
	}
}

// Root is the directory served under the public URL prefix.
func (s *UploadService) Root() string {
	return s.root
}

// SaveImage stores a multipart upload and returns its public URL.
func (s *UploadService) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxSize {
		return "", ErrFileTooBig
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return s.Save(fh.Filename, f)
}

// Save writes r under {yyyy}/{mm}/{uuid}{ext}. The original name only
// contributes its extension; content must sniff as an image.
func (s *UploadService) Save(filename string, r io.Reader) (string, error) {
	ext, err := validators.ImageExtension(filename)
	if err != nil {
		return "", err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotAnImage
	}

	now := s.now()
	rel := path.Join(now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
	fullPath, err := s.ValidatePath(rel)
	if err != nil {
		return "", err
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// Read one byte past the limit to detect oversized streams
	written, err := io.Copy(out, io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxSize+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooBig
	}
	if err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return s.urlPrefix + "/" + rel, nil
}

// Remove deletes a previously saved file by its public URL. URLs outside the
// upload prefix (external images, empty values) are ignored.
func (s *UploadService) Remove(publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, s.urlPrefix+"/")
	if !ok || rel == "" {
		return nil
	}
	fullPath, err := s.ValidatePath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ValidatePath checks if the path is within the upload directory (sandbox check)
func (s *UploadService) ValidatePath(relativePath string) (string, error) {
	cleanPath := filepath.Clean("/" + relativePath)
	cleanPath = strings.TrimPrefix(cleanPath, "/")
	if cleanPath == "" {
		return "", ErrFileInvalidPath
	}

	absBase, err := filepath.Abs(s.root)
	if err != nil {
		return "", ErrFileInvalidPath
	}
	absPath, err := filepath.Abs(filepath.Join(absBase, cleanPath))
	if err != nil {
		return "", ErrFileInvalidPath
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrFilePathTraversal
	}
	return absPath, nil
}
