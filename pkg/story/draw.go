package story

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawShadowed draws p twice: the shadow colour offset by p.Shadow, then the
// text colour on top.
func drawShadowed(dst draw.Image, p Placement, shadow color.Color) {
	if p.Text == "" {
		return
	}
	baseline := p.Top + p.Face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(shadow),
		Face: p.Face,
		Dot:  fixed.P(p.X+p.Shadow, baseline+p.Shadow),
	}
	d.DrawString(p.Text)

	d.Src = image.NewUniform(p.Color)
	d.Dot = fixed.P(p.X, baseline)
	d.DrawString(p.Text)
}
