package services

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enscho/internal/config"
	"enscho/internal/validators"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func pngReader() io.Reader {
	return bytes.NewReader(append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...))
}

func mustPath(t *testing.T, s *UploadService, url string) string {
	t.Helper()
	p, err := s.ValidatePath(strings.TrimPrefix(url, s.urlPrefix+"/"))
	require.NoError(t, err)
	return p
}

func newUploadService(t *testing.T, max int64) *UploadService {
	cfg := &config.Config{}
	cfg.Uploads.Path = t.TempDir()
	cfg.Uploads.URLPrefix = "/uploads"
	cfg.Limits.MaxUploadSize = max
	s := NewUploadService(cfg)
	s.now = func() time.Time { return time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestUploadService_Save(t *testing.T) {
	s := newUploadService(t, 1<<20)

	url, err := s.Save("Foto Kegiatan.PNG", pngReader())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/2026/07/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	full := mustPath(t, s, url)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, len(pngHeader)+100, len(data))
	assert.True(t, bytes.HasPrefix(data, pngHeader))

	other, err := s.Save("foto.png", pngReader())
	require.NoError(t, err)
	assert.NotEqual(t, url, other, "names must be unique")

	require.NoError(t, s.Remove(url))
	assert.NoFileExists(t, full)
	assert.NoError(t, s.Remove(url), "removing twice is not an error")
	assert.NoError(t, s.Remove("https://cdn.example.com/a.png"))
	assert.NoError(t, s.Remove(""))
}

func TestUploadService_Rejects(t *testing.T) {
	s := newUploadService(t, 64)

	_, err := s.Save("shell.php", pngReader())
	assert.ErrorIs(t, err, validators.ErrInvalidImage)

	_, err = s.Save("fake.png", strings.NewReader("<?php echo 1; ?>"))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = s.Save("big.png", pngReader())
	assert.ErrorIs(t, err, ErrFileTooBig)

	// Nothing left behind by the rejected uploads
	var files []string
	filepath.Walk(s.root, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	assert.Empty(t, files)
}

func TestUploadService_ValidatePath(t *testing.T) {
	s := newUploadService(t, 1<<20)
	absRoot, _ := filepath.Abs(s.root)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "2026/07/a.png", false},
		{"leading slash", "/2026/07/a.png", false},
		{"traversal is anchored", "../../etc/passwd", false},
		{"empty", "", true},
		{"root only", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, absRoot+string(filepath.Separator)), got)
		})
	}
}
