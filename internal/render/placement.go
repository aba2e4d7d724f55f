package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/inodb/vibe-region/internal/ident"
)

// Placement decides where the image for a center feature is written.
type Placement interface {
	Path(centerID string) (string, error)
}

// FileName derives a filesystem-safe PNG name from a feature ID. The sanitized
// ID keeps names readable; the digest of the raw ID keeps IDs that sanitize
// to the same token apart.
func FileName(centerID string) string {
	return fmt.Sprintf("%s-%016x.png", ident.Sanitize(centerID), xxhash.Sum64String(centerID))
}

// DirPlacement writes images directly into Dir, or the OS temp directory when
// Dir is empty. Paths are deterministic per center feature ID.
type DirPlacement struct {
	Dir string
}

// Path implements Placement.
func (p DirPlacement) Path(centerID string) (string, error) {
	dir := p.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Join(dir, FileName(centerID)), nil
}

// UniqueDirPlacement writes each image into a fresh random subdirectory of
// Dir, so repeated renders of one center feature never overwrite each other.
type UniqueDirPlacement struct {
	Dir string
}

// Path implements Placement.
func (p UniqueDirPlacement) Path(centerID string) (string, error) {
	return DirPlacement{Dir: filepath.Join(p.baseDir(), uuid.NewString())}.Path(centerID)
}

func (p UniqueDirPlacement) baseDir() string {
	if p.Dir == "" {
		return os.TempDir()
	}
	return p.Dir
}

// writePNG encodes img to path through a temporary file in the same
// directory, so path only ever holds a complete image.
func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := gg.SavePNG(tmpPath, img); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
