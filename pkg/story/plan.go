// plan.go - Text placement on the story canvas.
package story

import (
	"image/color"

	"golang.org/x/image/font"

	"github.com/xob0t/storygen/pkg/fonts"
	"github.com/xob0t/storygen/pkg/layout"
)

// Placement is one string drawn at a fixed position. X and Top are the left
// and top edges of the text in canvas pixels.
type Placement struct {
	Text   string
	X, Top int
	Width  int

	Face   font.Face
	Color  color.NRGBA
	Shadow int // shadow offset on both axes
}

// Plan is every text draw of a story, in drawing order.
type Plan struct {
	Lines       []Placement
	Pitch       int
	Attribution Placement
	Footer      Placement
}

// Placements returns all draws in order: message lines, attribution, footer.
func (p Plan) Placements() []Placement {
	out := make([]Placement, 0, len(p.Lines)+2)
	out = append(out, p.Lines...)
	return append(out, p.Attribution, p.Footer)
}

// PlanText lays out the message block centred on the canvas, the
// attribution below it and the footer near the bottom edge.
func PlanText(cfg Config, set *fonts.Set, message, attribution string) Plan {
	mm := layout.FaceMeasurer{Face: set.Message}
	lines := layout.Wrap(mm, message, cfg.TextWidth())
	pitch := layout.LinePitch(mm, cfg.LineSpacing)

	plan := Plan{Pitch: pitch, Lines: make([]Placement, 0, len(lines))}

	y := (cfg.Height - pitch*len(lines)) / 2
	for _, line := range lines {
		w, _ := mm.Measure(line)
		plan.Lines = append(plan.Lines, Placement{
			Text:   line,
			X:      (cfg.Width - w) / 2,
			Top:    y,
			Width:  w,
			Face:   set.Message,
			Color:  cfg.MessageColor,
			Shadow: cfg.MessageShadow,
		})
		y += pitch
	}

	plan.Attribution = centred(cfg, set.Attribution, cfg.AttributionPrefix+attribution, y+cfg.AttributionGap)
	plan.Attribution.Color = cfg.AttributionColor
	plan.Attribution.Shadow = cfg.AttributionShadow

	plan.Footer = centred(cfg, set.Footer, cfg.Footer, cfg.Height-cfg.FooterOffset)
	plan.Footer.Color = cfg.FooterColor
	plan.Footer.Shadow = cfg.FooterShadow

	return plan
}

func centred(cfg Config, face font.Face, text string, top int) Placement {
	w, _ := layout.FaceMeasurer{Face: face}.Measure(text)
	return Placement{
		Text:  text,
		X:     (cfg.Width - w) / 2,
		Top:   top,
		Width: w,
		Face:  face,
	}
}
