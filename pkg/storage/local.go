package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SavedFile describes a stored asset and its public URLs.
type SavedFile struct {
	URL       string
	ThumbURL  *string
	SizeBytes int64
}

// Store persists uploaded files and returns their serving URLs. The
// thumbnailing pipeline sits behind this boundary; callers only see URLs.
type Store interface {
	Save(ctx context.Context, fileName string, contents io.Reader, thumbnail bool) (*SavedFile, error)
}

// Local writes uploads to a directory served as static files.
type Local struct {
	dir        string
	baseURL    string
	thumbWidth int
}

// NewLocal constructs a disk-backed store rooted at dir.
func NewLocal(dir, baseURL string, thumbWidth int) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	if thumbWidth <= 0 {
		thumbWidth = 600
	}
	return &Local{
		dir:        dir,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		thumbWidth: thumbWidth,
	}, nil
}

// Save streams contents to disk under a collision-free name. When thumbnail
// is requested and the payload decodes as an image, a downscaled JPEG is
// written next to it; thumbnail failures do not fail the save.
func (l *Local) Save(_ context.Context, fileName string, contents io.Reader, thumbnail bool) (*SavedFile, error) {
	name := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFileName(fileName))
	full := filepath.Join(l.dir, name)

	out, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", full, err)
	}
	size, err := io.Copy(out, contents)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("write %q: %w", full, err)
	}

	saved := &SavedFile{
		URL:       l.baseURL + "/" + name,
		SizeBytes: size,
	}

	if thumbnail {
		thumbName := "thumb-" + strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
		if err := writeThumbnail(full, filepath.Join(l.dir, thumbName), l.thumbWidth); err == nil {
			thumbURL := l.baseURL + "/" + thumbName
			saved.ThumbURL = &thumbURL
		}
	}

	return saved, nil
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	result := strings.Trim(b.String(), "-_.")
	if result == "" {
		return "file"
	}
	return result
}
