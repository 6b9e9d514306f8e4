// fonts.go - Font discovery and loading with a built-in fallback face.
// Uses golang.org/x/image/font/opentype for system TrueType/OpenType files and
// falls back to basicfont.Face7x13 when no candidate file is usable.
package fonts

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// DefaultCandidates are probed in order; the first existing file wins.
var DefaultCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// Find returns the first path in paths that exists as a regular file.
func Find(paths []string) (string, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Manager holds a parsed font file and hands out faces at any size.
type Manager struct {
	path   string
	parsed *opentype.Font
}

// NewManager reads and parses the font file at path.
func NewManager(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return NewManagerFromBytes(path, data)
}

// NewManagerFromBytes parses font data already in memory. name is only used
// for reporting.
func NewManagerFromBytes(name string, data []byte) (*Manager, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return &Manager{path: name, parsed: parsed}, nil
}

// Path returns the file the manager was loaded from.
func (m *Manager) Path() string { return m.path }

// Face returns a font.Face at the given point size.
func (m *Manager) Face(size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}

	face, err := opentype.NewFace(m.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.0fpt face: %w", size, err)
	}

	return face, nil
}
