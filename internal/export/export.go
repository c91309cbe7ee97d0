// Package export persists finished markdown artifacts to local files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxSlugLen = 60

// Exporter writes markdown documents into a local export directory.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = "exports"
	}
	return &Exporter{dir: dir}
}

// ToLocalDoc persists markdown to a uniquely named file and returns
// its resolved path. A short random suffix avoids slug collisions.
func (e *Exporter) ToLocalDoc(query, markdown string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.md", Slug(query), uuid.NewString()[:6])
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving export path: %w", err)
	}
	return abs, nil
}

// Slug turns a free-text query into a filename-safe slug.
func Slug(query string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(query)), "-")
	slug = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return -1
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}
