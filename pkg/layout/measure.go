// measure.go - Text extents under a font face.
package layout

import (
	"golang.org/x/image/font"
)

// ReferenceText spans both an ascender and a descender. Its height is used
// as the uniform line height for a block of text.
const ReferenceText = "Ay"

// Measurer reports the rendered pixel extents of a string.
type Measurer interface {
	Measure(s string) (w, h int)
}

// FaceMeasurer measures strings with a font.Face.
type FaceMeasurer struct {
	Face font.Face
}

// Measure returns the width and height of the ink bounding box of s.
func (m FaceMeasurer) Measure(s string) (w, h int) {
	bounds, _ := font.BoundString(m.Face, s)
	w = (bounds.Max.X - bounds.Min.X).Ceil()
	h = (bounds.Max.Y - bounds.Min.Y).Ceil()
	return w, h
}

// LinePitch is the height of ReferenceText plus spacing.
func LinePitch(m Measurer, spacing int) int {
	_, h := m.Measure(ReferenceText)
	return h + spacing
}
