package fonts

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Source tells where the faces of a Set came from.
type Source int

const (
	// SourceSystem means every face was built from a font file.
	SourceSystem Source = iota
	// SourceFallback means no usable font file was found and all three
	// sizes share the built-in bitmap face.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceSystem:
		return "system"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Sizes are the point sizes of the three text roles.
type Sizes struct {
	Message     float64
	Attribution float64
	Footer      float64
}

// DefaultSizes are 80pt message, 40pt attribution and 30pt footer.
var DefaultSizes = Sizes{Message: 80, Attribution: 40, Footer: 30}

// Set is the three faces used to draw one story image.
type Set struct {
	Message     font.Face
	Attribution font.Face
	Footer      font.Face

	Source Source
	Path   string // font file; empty for SourceFallback
	Reason error  // why a found candidate was not used, if any
}

// Degraded reports whether the set uses the built-in fallback face.
func (s *Set) Degraded() bool { return s.Source == SourceFallback }

// Close releases the faces.
func (s *Set) Close() error {
	if s.Source == SourceFallback {
		return nil
	}
	return errors.Join(s.Message.Close(), s.Attribution.Close(), s.Footer.Close())
}

// Fallback returns the degraded set: one built-in face for every role.
func Fallback() *Set {
	f := basicfont.Face7x13
	return &Set{Message: f, Attribution: f, Footer: f, Source: SourceFallback}
}

// Load resolves the first existing candidate and builds faces at sizes.
// A missing or unparsable font is not an error: the fallback set is
// returned, with Reason set when a candidate existed but could not be used.
func Load(candidates []string, sizes Sizes) (*Set, error) {
	path, ok := Find(candidates)
	if !ok {
		return Fallback(), nil
	}

	m, err := NewManager(path)
	if err != nil {
		set := Fallback()
		set.Reason = err
		return set, nil
	}

	set, err := m.Set(sizes)
	if err != nil {
		return nil, fmt.Errorf("fonts: %s: %w", path, err)
	}
	return set, nil
}

// Set builds the three role faces from m.
func (m *Manager) Set(sizes Sizes) (*Set, error) {
	msg, err := m.Face(sizes.Message, 72)
	if err != nil {
		return nil, err
	}
	attr, err := m.Face(sizes.Attribution, 72)
	if err != nil {
		msg.Close()
		return nil, err
	}
	footer, err := m.Face(sizes.Footer, 72)
	if err != nil {
		msg.Close()
		attr.Close()
		return nil, err
	}

	return &Set{
		Message:     msg,
		Attribution: attr,
		Footer:      footer,
		Source:      SourceSystem,
		Path:        m.path,
	}, nil
}
